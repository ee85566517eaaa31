package models

import "strings"

type Category string

const (
	CategoryInternship  Category = "internship"
	CategoryJob         Category = "job"
	CategoryHackathon   Category = "hackathon"
	CategoryScholarship Category = "scholarship"
	CategoryEvent       Category = "event"
	CategoryCompetition Category = "competition"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryInternship,
	CategoryJob,
	CategoryHackathon,
	CategoryScholarship,
	CategoryEvent,
	CategoryCompetition,
}

// ParseCategory reports whether value names a known category.
func ParseCategory(value string) (Category, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, category := range Categories {
		if string(category) == value {
			return category, true
		}
	}
	return "", false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(value string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	default:
		return "", false
	}
}

// Opportunity is the structured record derived from one RawMessage.
// Optional string fields are empty when absent; Tags and Requirements are never nil.
type Opportunity struct {
	ID             string   `json:"id"`
	Subject        string   `json:"subject"`
	Company        string   `json:"company"`
	Category       Category `json:"category"`
	Priority       Priority `json:"priority"`
	Date           Date     `json:"date"`
	Deadline       *Date    `json:"deadline,omitempty"`
	Location       string   `json:"location,omitempty"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	Salary         string   `json:"salary,omitempty"`
	Requirements   []string `json:"requirements"`
	ApplicationURL string   `json:"applicationUrl,omitempty"`
}
