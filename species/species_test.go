package species

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		summary string
		want    string
	}{
		{
			name: "capitalized tag wins",
			tags: []string{"weeds", "Lantana camara", "roadside"},
			want: "Lantana camara",
		},
		{
			name: "tag with space counts as proper name",
			tags: []string{"water hyacinth"},
			want: "water hyacinth",
		},
		{
			name: "first tag ordering respected",
			tags: []string{"Parthenium", "Lantana camara"},
			want: "Parthenium",
		},
		{
			name: "lowercase single-word tags fall back to first tag",
			tags: []string{"weed", "shrub"},
			want: "weed",
		},
		{
			name:    "binomial at start of summary",
			summary: "Lantana camara spreading along the fence line",
			want:    "Lantana camara",
		},
		{
			name:    "binomial must anchor at start",
			summary: "dense patch of Lantana camara near the creek",
			want:    Unknown,
		},
		{
			name:    "pattern is best-effort, not a real parse",
			summary: "Dense patch spreading near the creek",
			want:    "Dense patch",
		},
		{
			name:    "tags preferred over summary",
			tags:    []string{"Pontederia crassipes"},
			summary: "Eichhornia mats on the lake",
			want:    "Pontederia crassipes",
		},
		{
			name: "blank tags are skipped",
			tags: []string{"  ", "kudzu"},
			want: "kudzu",
		},
		{
			name: "no input falls back",
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.tags, tt.summary))
		})
	}
}
