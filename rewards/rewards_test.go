package rewards

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-wildwatch/types"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	store.SeedUser(types.UserData{ID: "u1", DisplayName: "Asha"})
	return NewService(store), store
}

func TestAwardPoints_TierExamples(t *testing.T) {
	tests := []struct {
		label      string
		confidence float64
		want       int
	}{
		{"invasive-plant", 0.92, 20},
		{"invasive-plant", 0.50, 0},
		{"invasive-plant", 0.97, 30},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%.2f", tt.label, tt.confidence), func(t *testing.T) {
			svc, _ := newTestService()
			result, err := svc.AwardPoints(context.Background(), "u1", "r1", tt.label, tt.confidence, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.PointsAwarded)
		})
	}
}

func TestPointsForClassification_Boundaries(t *testing.T) {
	assert.Equal(t, 0, PointsForClassification("invasive-plant", 0.70))
	assert.Equal(t, 10, PointsForClassification("invasive-plant", 0.705))
	assert.Equal(t, 10, PointsForClassification("invasive-plant", 0.85))
	assert.Equal(t, 20, PointsForClassification("invasive-plant", 0.86))
	assert.Equal(t, 20, PointsForClassification("invasive-plant", 0.95))
	assert.Equal(t, 30, PointsForClassification("invasive-plant", 0.96))
	assert.Equal(t, 30, PointsForClassification("invasive-insect", 1.0))

	// Non-invasive categories never earn points.
	assert.Equal(t, 0, PointsForClassification("native-plant", 0.99))
	assert.Equal(t, 0, PointsForClassification("", 0.99))
}

func TestAwardPoints_IdempotentPerReport(t *testing.T) {
	svc, store := newTestService()

	first, err := svc.AwardPoints(context.Background(), "u1", "r1", "invasive-plant", 0.92, false)
	require.NoError(t, err)
	assert.Equal(t, 20, first.PointsAwarded)
	require.NotNil(t, first.User)
	assert.Equal(t, 20, first.User.Points)
	assert.Equal(t, 1, first.User.TotalReports)

	second, err := svc.AwardPoints(context.Background(), "u1", "r1", "invasive-plant", 0.92, false)
	require.NoError(t, err)
	assert.Zero(t, second.PointsAwarded)
	require.NotNil(t, second.User)
	assert.Equal(t, 20, second.User.Points, "balance must be unchanged on replay")
	assert.Equal(t, 1, second.User.TotalReports)

	assert.Len(t, store.Entries("u1"), 1)
}

func TestAwardPoints_UnknownUserIsNoOp(t *testing.T) {
	svc, store := newTestService()

	result, err := svc.AwardPoints(context.Background(), "ghost", "r1", "invasive-plant", 0.92, false)

	require.NoError(t, err)
	assert.Zero(t, result.PointsAwarded)
	assert.Nil(t, result.User)
	assert.Empty(t, store.Entries("ghost"))
}

func TestAwardPoints_ZeroPointLedgerRowStillGuards(t *testing.T) {
	svc, store := newTestService()

	// Low confidence earns nothing but still counts the report and appends
	// the ledger row.
	result, err := svc.AwardPoints(context.Background(), "u1", "r1", "invasive-plant", 0.50, false)
	require.NoError(t, err)
	assert.Zero(t, result.PointsAwarded)
	assert.Equal(t, 1, result.User.TotalReports)
	assert.Zero(t, result.User.Points)

	entries := store.Entries("u1")
	require.Len(t, entries, 1)
	assert.Equal(t, "report:r1", entries[0].Reason)
	assert.Zero(t, entries[0].Amount)

	// The replay hits the guard, not a second append.
	_, err = svc.AwardPoints(context.Background(), "u1", "r1", "invasive-plant", 0.50, false)
	require.NoError(t, err)
	assert.Len(t, store.Entries("u1"), 1)
	assert.Equal(t, 1, mustUser(store, "u1").TotalReports)
}

func TestAwardPoints_VerifiedCounter(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.AwardPoints(context.Background(), "u1", "r1", "invasive-plant", 0.92, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.User.VerifiedReports)

	result, err = svc.AwardPoints(context.Background(), "u1", "r2", "invasive-plant", 0.92, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.User.VerifiedReports)
	assert.Equal(t, 2, result.User.TotalReports)
	assert.Equal(t, 40, result.User.Points)
}

func TestAwardPoints_RequiresIdentifiers(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AwardPoints(context.Background(), "", "r1", "invasive-plant", 0.92, false)
	assert.Error(t, err)
	_, err = svc.AwardPoints(context.Background(), "u1", "", "invasive-plant", 0.92, false)
	assert.Error(t, err)
}

func mustUser(store *MemoryStore, id string) types.UserData {
	store.mu.Lock()
	defer store.mu.Unlock()
	return *store.users[id]
}
