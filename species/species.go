package species

import (
	"regexp"
	"strings"
	"unicode"
)

// Unknown is the fallback label when no species name can be inferred.
const Unknown = "Unknown species"

// Matches a leading binomial-looking pair like "Lantana camara".
var binomialPattern = regexp.MustCompile(`^([A-Z][a-z]+ [a-z]+)`)

// Resolve infers a species label from a report's tags and free-text summary.
// Preference order: the first tag that looks like a proper name (leading
// capital or contains a space), then the first tag as-is, then a binomial
// pattern at the start of the summary, then the Unknown fallback.
// Best-effort pattern matching; never fails.
func Resolve(tags []string, summary string) string {
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if looksLikeProperName(trimmed) {
			return trimmed
		}
	}

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			return trimmed
		}
	}

	if m := binomialPattern.FindString(strings.TrimSpace(summary)); m != "" {
		return m
	}

	return Unknown
}

func looksLikeProperName(tag string) bool {
	runes := []rune(tag)
	return unicode.IsUpper(runes[0]) || strings.Contains(tag, " ")
}
