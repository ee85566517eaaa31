package classify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vijay-1289/opportune/internal/models"
)

const (
	DefaultSubject     = "No Subject"
	DefaultDescription = "No description available"
)

var (
	ErrMissingID        = errors.New("message has no id")
	ErrInvalidTimestamp = errors.New("message timestamp out of range")
	ErrPanic            = errors.New("panic while classifying message")
)

// maxEpochMillis is the last millisecond of year 9999 UTC.
var maxEpochMillis = time.Date(9999, time.December, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli()

// SkipError marks a message that produced no record.
type SkipError struct {
	ID     string
	Reason error
}

func (e *SkipError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("skip message: %v", e.Reason)
	}
	return fmt.Sprintf("skip message %s: %v", e.ID, e.Reason)
}

func (e *SkipError) Unwrap() error {
	return e.Reason
}

// Classify builds the opportunity record for raw. A message that cannot be
// read is reported as a *SkipError and never as a partial record.
func Classify(raw models.RawMessage) (opp models.Opportunity, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			opp = models.Opportunity{}
			err = &SkipError{ID: raw.ID, Reason: fmt.Errorf("%w: %v", ErrPanic, recovered)}
		}
	}()

	if strings.TrimSpace(raw.ID) == "" {
		return models.Opportunity{}, &SkipError{Reason: ErrMissingID}
	}
	if raw.ReceivedAtEpochMillis <= 0 || raw.ReceivedAtEpochMillis > maxEpochMillis {
		return models.Opportunity{}, &SkipError{
			ID:     raw.ID,
			Reason: fmt.Errorf("%w: %d", ErrInvalidTimestamp, raw.ReceivedAtEpochMillis),
		}
	}

	// Only empty values take defaults; anything else passes through as given.
	subject := raw.SubjectLine
	if subject == "" {
		subject = DefaultSubject
	}
	snippet := raw.SnippetText
	description := snippet
	if description == "" {
		description = DefaultDescription
	}

	combined := subject + " " + snippet
	opp = models.Opportunity{
		ID:             raw.ID,
		Subject:        subject,
		Company:        CompanyName(raw.Sender),
		Category:       CategoryOf(combined),
		Priority:       PriorityOf(combined),
		Date:           models.DateOf(time.UnixMilli(raw.ReceivedAtEpochMillis).UTC()),
		Location:       Location(snippet),
		Description:    description,
		Tags:           Tags(combined),
		Salary:         Salary(snippet),
		Requirements:   Requirements(snippet),
		ApplicationURL: ApplicationURL(snippet),
	}
	if deadline, ok := Deadline(snippet); ok {
		opp.Deadline = &deadline
	}
	return opp, nil
}
