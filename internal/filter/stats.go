package filter

import (
	"time"

	"github.com/Vijay-1289/opportune/internal/models"
)

// UrgentWindow is how close a deadline must be to count as urgent.
const UrgentWindow = 7 * 24 * time.Hour

type CategoryStats struct {
	Total  int `json:"total"`
	New    int `json:"new"`
	Urgent int `json:"urgent"`
}

// Stats is keyed by category name plus "all". Every category is present.
type Stats map[string]CategoryStats

// Summarize counts opportunities per category.
func Summarize(opps []models.Opportunity, now time.Time) Stats {
	stats := Stats{All: {}}
	for _, category := range models.Categories {
		stats[string(category)] = CategoryStats{}
	}

	for _, opp := range opps {
		isNew := IsNew(opp, now)
		isUrgent := IsUrgent(opp, now)
		for _, key := range []string{All, string(opp.Category)} {
			entry := stats[key]
			entry.Total++
			if isNew {
				entry.New++
			}
			if isUrgent {
				entry.Urgent++
			}
			stats[key] = entry
		}
	}
	return stats
}

// IsNew reports whether opp arrived today or yesterday (UTC).
func IsNew(opp models.Opportunity, now time.Time) bool {
	yesterday := models.DateOf(now.UTC().AddDate(0, 0, -1))
	return !opp.Date.Before(yesterday)
}

// IsUrgent reports whether opp has a deadline within UrgentWindow of now.
// Past deadlines count as urgent.
func IsUrgent(opp models.Opportunity, now time.Time) bool {
	if opp.Deadline == nil {
		return false
	}
	limit := models.DateOf(now.UTC().Add(UrgentWindow))
	return !opp.Deadline.After(limit)
}
