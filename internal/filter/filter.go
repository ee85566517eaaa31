// Package filter narrows and summarizes classified opportunities the way the
// dashboard does: by category, priority, company, free text and recency.
package filter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/Vijay-1289/opportune/internal/models"
)

// All disables a category, priority or date range criterion.
const All = "all"

type DateRange string

const (
	DateRangeAll   DateRange = All
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

func ParseDateRange(value string) (DateRange, error) {
	switch DateRange(strings.ToLower(strings.TrimSpace(value))) {
	case "", DateRangeAll:
		return DateRangeAll, nil
	case DateRangeToday:
		return DateRangeToday, nil
	case DateRangeWeek:
		return DateRangeWeek, nil
	case DateRangeMonth:
		return DateRangeMonth, nil
	default:
		return "", fmt.Errorf("unknown date range: %s", value)
	}
}

// Criteria is a conjunction of filters; zero values match everything.
type Criteria struct {
	Category  models.Category
	Priority  models.Priority
	Company   string
	Query     string
	DateRange DateRange
}

// ParseCriteria validates user-supplied filter values. "all" and "" mean no filter.
func ParseCriteria(category, priority, company, query, dateRange string) (Criteria, error) {
	var criteria Criteria

	if value := strings.TrimSpace(category); value != "" && !strings.EqualFold(value, All) {
		parsed, ok := models.ParseCategory(value)
		if !ok {
			return Criteria{}, fmt.Errorf("unknown category: %s", category)
		}
		criteria.Category = parsed
	}
	if value := strings.TrimSpace(priority); value != "" && !strings.EqualFold(value, All) {
		parsed, ok := models.ParsePriority(value)
		if !ok {
			return Criteria{}, fmt.Errorf("unknown priority: %s", priority)
		}
		criteria.Priority = parsed
	}

	parsedRange, err := ParseDateRange(dateRange)
	if err != nil {
		return Criteria{}, err
	}
	criteria.DateRange = parsedRange
	criteria.Company = strings.TrimSpace(company)
	criteria.Query = strings.TrimSpace(query)
	return criteria, nil
}

// Apply keeps the opportunities matching c, in order. now anchors the date range.
func Apply(opps []models.Opportunity, c Criteria, now time.Time) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if c.Match(opp, now) {
			out = append(out, opp)
		}
	}
	return out
}

func (c Criteria) Match(opp models.Opportunity, now time.Time) bool {
	if c.Category != "" && opp.Category != c.Category {
		return false
	}
	if c.Priority != "" && opp.Priority != c.Priority {
		return false
	}
	if c.Company != "" && !containsFold(opp.Company, c.Company) {
		return false
	}
	if c.Query != "" && !matchesQuery(opp, c.Query) {
		return false
	}
	return inRange(opp.Date, c.DateRange, now)
}

func matchesQuery(opp models.Opportunity, query string) bool {
	if containsFold(opp.Subject, query) || containsFold(opp.Company, query) || containsFold(opp.Description, query) {
		return true
	}
	for _, tag := range opp.Tags {
		if containsFold(tag, query) {
			return true
		}
	}
	return false
}

func inRange(date models.Date, dateRange DateRange, now time.Time) bool {
	today := models.DateOf(now.UTC())
	switch dateRange {
	case DateRangeToday:
		return date == today
	case DateRangeWeek:
		return !date.Before(models.DateOf(now.UTC().AddDate(0, 0, -7)))
	case DateRangeMonth:
		return !date.Before(models.DateOf(now.UTC().AddDate(0, 0, -30)))
	default:
		return true
	}
}

func containsFold(value, substr string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(value), folder.String(substr))
}
