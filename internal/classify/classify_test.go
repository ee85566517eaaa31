package classify

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/models"
)

const novemberMillis = 1700000000000 // 2023-11-14T22:13:20Z

func TestClassifyEndToEnd(t *testing.T) {
	raw := models.RawMessage{
		ID:                    "42",
		Sender:                "Hiring Team <hiring@stripe.com>",
		SubjectLine:           "Remote Frontend Role",
		SnippetText:           "Apply by 2024-03-15. Remote position, $120k-$180k. • React required",
		ReceivedAtEpochMillis: novemberMillis,
	}

	got, err := Classify(raw)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}

	deadline := models.Date{Year: 2024, Month: 3, Day: 15}
	want := models.Opportunity{
		ID:           "42",
		Subject:      "Remote Frontend Role",
		Company:      "stripe.com",
		Category:     models.CategoryJob,
		Priority:     models.PriorityLow,
		Date:         models.Date{Year: 2023, Month: 11, Day: 14},
		Deadline:     &deadline,
		Location:     "Remote",
		Description:  raw.SnippetText,
		Tags:         []string{"Remote"},
		Salary:       "$120k-$180k",
		Requirements: []string{"React required"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify() = %+v\nwant %+v", got, want)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	raw := models.RawMessage{
		ID:                    "7",
		Sender:                "Acme <jobs@acme.com>",
		SubjectLine:           "Urgent: paid internship",
		SnippetText:           "Deadline March 1, 2025 • Go • SQL https://acme.com/apply",
		ReceivedAtEpochMillis: novemberMillis,
	}
	first, err := Classify(raw)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	second, err := Classify(raw)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Classify() not deterministic:\n%+v\n%+v", first, second)
	}
	if first.Category != models.CategoryInternship || first.Priority != models.PriorityHigh {
		t.Fatalf("unexpected category/priority: %s/%s", first.Category, first.Priority)
	}
	if first.ApplicationURL != "https://acme.com/apply" {
		t.Fatalf("ApplicationURL = %q", first.ApplicationURL)
	}
}

func TestClassifyDefaults(t *testing.T) {
	got, err := Classify(models.RawMessage{ID: "1", ReceivedAtEpochMillis: novemberMillis})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if got.Subject != DefaultSubject {
		t.Fatalf("Subject = %q, want %q", got.Subject, DefaultSubject)
	}
	if got.Company != UnknownCompany {
		t.Fatalf("Company = %q, want %q", got.Company, UnknownCompany)
	}
	if got.Description != DefaultDescription {
		t.Fatalf("Description = %q, want %q", got.Description, DefaultDescription)
	}
	if got.Category != models.CategoryJob || got.Priority != models.PriorityLow {
		t.Fatalf("unexpected category/priority: %s/%s", got.Category, got.Priority)
	}
	if got.Deadline != nil || got.Location != "" || got.Salary != "" || got.ApplicationURL != "" {
		t.Fatalf("expected optional fields absent: %+v", got)
	}
	if got.Tags == nil || got.Requirements == nil {
		t.Fatalf("Tags and Requirements must be non-nil")
	}
}

func TestClassifyMalformedDeadline(t *testing.T) {
	got, err := Classify(models.RawMessage{
		ID:                    "9",
		SubjectLine:           "Scholarship round",
		SnippetText:           "deadline: not-a-date",
		ReceivedAtEpochMillis: novemberMillis,
	})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if got.Deadline != nil {
		t.Fatalf("Deadline = %v, want absent", got.Deadline)
	}
	if got.Priority != models.PriorityHigh || got.Category != models.CategoryScholarship {
		t.Fatalf("unexpected category/priority: %s/%s", got.Category, got.Priority)
	}
	if got.Description != "deadline: not-a-date" {
		t.Fatalf("Description = %q", got.Description)
	}
}

func TestClassifySkips(t *testing.T) {
	cases := []struct {
		raw  models.RawMessage
		want error
	}{
		{models.RawMessage{ReceivedAtEpochMillis: novemberMillis}, ErrMissingID},
		{models.RawMessage{ID: "  ", ReceivedAtEpochMillis: novemberMillis}, ErrMissingID},
		{models.RawMessage{ID: "a"}, ErrInvalidTimestamp},
		{models.RawMessage{ID: "b", ReceivedAtEpochMillis: -5}, ErrInvalidTimestamp},
		{models.RawMessage{ID: "c", ReceivedAtEpochMillis: maxEpochMillis + 1}, ErrInvalidTimestamp},
	}

	for _, tc := range cases {
		_, err := Classify(tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("Classify(%+v) error = %v, want %v", tc.raw, err, tc.want)
		}
		var skip *SkipError
		if !errors.As(err, &skip) {
			t.Fatalf("expected *SkipError, got %T", err)
		}
	}
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	var messages []models.RawMessage
	for _, id := range []string{"a", "", "b", "c", "d", "e", "f", "g"} {
		messages = append(messages, models.RawMessage{ID: id, ReceivedAtEpochMillis: novemberMillis, SnippetText: "hello " + id})
	}
	messages = append(messages, models.RawMessage{ID: "late", ReceivedAtEpochMillis: 0})

	for _, workers := range []int{0, 1, 3, 16} {
		batch := ClassifyAll(messages, Options{Workers: workers})
		var ids []string
		for _, opp := range batch.Opportunities {
			ids = append(ids, opp.ID)
		}
		want := []string{"a", "b", "c", "d", "e", "f", "g"}
		if !reflect.DeepEqual(ids, want) {
			t.Fatalf("workers=%d ids = %v, want %v", workers, ids, want)
		}
		if len(batch.Skipped) != 2 {
			t.Fatalf("workers=%d skipped = %d, want 2", workers, len(batch.Skipped))
		}
		if batch.Skipped[1].ID != "late" || !errors.Is(&batch.Skipped[1], ErrInvalidTimestamp) {
			t.Fatalf("unexpected skip: %+v", batch.Skipped[1])
		}
		if batch.Total() != len(messages) {
			t.Fatalf("Total() = %d, want %d", batch.Total(), len(messages))
		}
	}
}

func TestClassifyAllLogsSkips(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	batch := ClassifyAll([]models.RawMessage{{ID: "x"}}, Options{Logger: &logger})
	if len(batch.Opportunities) != 0 || len(batch.Skipped) != 1 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if !strings.Contains(buf.String(), "message skipped") || !strings.Contains(buf.String(), `"message_id":"x"`) {
		t.Fatalf("expected skip log, got %q", buf.String())
	}
}

func TestClassifyAllEmpty(t *testing.T) {
	batch := ClassifyAll(nil, Options{Workers: 4})
	if batch.Opportunities == nil || len(batch.Opportunities) != 0 || batch.Total() != 0 {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}

func TestClassifyKeepsWhitespaceFields(t *testing.T) {
	got, err := Classify(models.RawMessage{
		ID:                    "ws",
		SubjectLine:           "  Hackathon weekend ",
		SnippetText:           " ",
		ReceivedAtEpochMillis: novemberMillis,
	})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if got.Subject != "  Hackathon weekend " {
		t.Fatalf("Subject = %q, want it unchanged", got.Subject)
	}
	if got.Description != " " {
		t.Fatalf("Description = %q, want %q", got.Description, " ")
	}
	if got.Category != models.CategoryHackathon {
		t.Fatalf("Category = %s, want hackathon", got.Category)
	}
}
