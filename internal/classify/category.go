package classify

import (
	"regexp"

	"github.com/Vijay-1289/opportune/internal/models"
)

type categoryRule struct {
	category models.Category
	pattern  *regexp.Regexp
}

// categoryRules is evaluated top to bottom and the first hit wins, so a
// message mentioning both "internship" and "hiring" is an internship.
var categoryRules = []categoryRule{
	{models.CategoryInternship, regexp.MustCompile(`internship|\bintern\b`)},
	{models.CategoryJob, regexp.MustCompile(`job|position|role|hiring|career`)},
	{models.CategoryHackathon, regexp.MustCompile(`hackathon|hack\b|coding competition`)},
	{models.CategoryScholarship, regexp.MustCompile(`scholarship|grant|funding|fellowship`)},
	{models.CategoryEvent, regexp.MustCompile(`event|conference|workshop|seminar|meetup`)},
	{models.CategoryCompetition, regexp.MustCompile(`competition|contest|challenge`)},
}

// CategoryOf classifies text into one category, defaulting to job.
func CategoryOf(text string) models.Category {
	folded := fold(text)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(folded) {
			return rule.category
		}
	}
	return models.CategoryJob
}
