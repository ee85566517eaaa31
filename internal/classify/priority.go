package classify

import (
	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/Vijay-1289/opportune/internal/models"
)

var (
	highPriorityMatcher = ahocorasick.NewStringMatcher([]string{
		"urgent", "asap", "deadline", "expires", "limited time", "final reminder",
	})
	mediumPriorityMatcher = ahocorasick.NewStringMatcher([]string{
		"important", "reminder", "action required",
	})
)

// PriorityOf grades text high, medium or low by keyword tier.
func PriorityOf(text string) models.Priority {
	folded := []byte(fold(text))
	switch {
	case len(highPriorityMatcher.MatchThreadSafe(folded)) > 0:
		return models.PriorityHigh
	case len(mediumPriorityMatcher.MatchThreadSafe(folded)) > 0:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
