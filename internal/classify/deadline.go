package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vijay-1289/opportune/internal/models"
)

var (
	deadlinePattern = regexp.MustCompile(
		`(?i)(?:deadline|due|expires?|apply by|submit by)[\s:]*` +
			`(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[a-z]+\.? \d{1,2},? \d{4})`,
	)
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

var longDateLayouts = []string{"January 2 2006", "Jan 2 2006"}

// Deadline finds the first deadline phrase in snippet and parses the date
// that follows it. An unparseable date reports false.
func Deadline(snippet string) (models.Date, bool) {
	match := deadlinePattern.FindStringSubmatch(snippet)
	if match == nil {
		return models.Date{}, false
	}
	return parseDeadlineDate(match[1])
}

func parseDeadlineDate(value string) (models.Date, bool) {
	value = strings.TrimSpace(value)
	switch {
	case isoDatePattern.MatchString(value):
		t, err := time.Parse("2006-1-2", value)
		if err != nil {
			return models.Date{}, false
		}
		return models.DateOf(t), true
	case numericDatePattern.MatchString(value):
		return parseNumericDate(value)
	default:
		return parseLongDate(value)
	}
}

// parseNumericDate reads month-first dates, falling back to day-first when
// the leading number cannot be a month.
func parseNumericDate(value string) (models.Date, bool) {
	parts := numericDatePattern.FindStringSubmatch(value)
	if parts == nil {
		return models.Date{}, false
	}
	first, _ := strconv.Atoi(parts[1])
	second, _ := strconv.Atoi(parts[2])
	year, ok := expandYear(parts[3])
	if !ok {
		return models.Date{}, false
	}

	if date, ok := validDate(year, first, second); ok {
		return date, true
	}
	if first > 12 {
		return validDate(year, second, first)
	}
	return models.Date{}, false
}

func expandYear(value string) (int, bool) {
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	switch len(value) {
	case 2:
		if year < 69 {
			return 2000 + year, true
		}
		return 1900 + year, true
	case 4:
		return year, true
	default:
		return 0, false
	}
}

func validDate(year, month, day int) (models.Date, bool) {
	if month < 1 || month > 12 || day < 1 {
		return models.Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return models.Date{}, false
	}
	return models.DateOf(t), true
}

func parseLongDate(value string) (models.Date, bool) {
	value = strings.NewReplacer(",", "", ".", "").Replace(value)
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return models.Date{}, false
	}
	if strings.EqualFold(fields[0], "sept") {
		fields[0] = "Sep"
	}
	value = strings.Join(fields, " ")

	for _, layout := range longDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.DateOf(t), true
		}
	}
	return models.Date{}, false
}
