package source

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Vijay-1289/opportune/internal/classify"
)

func TestSnippetPrefersText(t *testing.T) {
	got := Snippet("  Apply   by\n03/15/2024  ", "<p>ignored</p>")
	if got != "Apply by\n03/15/2024" {
		t.Fatalf("Snippet() = %q", got)
	}
}

func TestSnippetRendersHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body><p>Join the <b>hackathon</b></p><p>Prizes&nbsp;inside</p><script>x()</script></body></html>`
	got := Snippet("", html)
	if got != "Join the hackathon\nPrizes inside" {
		t.Fatalf("Snippet() = %q", got)
	}
}

func TestSnippetTruncatesAtWordBoundary(t *testing.T) {
	got := Snippet(strings.Repeat("word ", 60), "")
	if utf8.RuneCountInString(got) > SnippetLength {
		t.Fatalf("snippet too long: %d runes", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "word") {
		t.Fatalf("snippet cut mid-word: %q", got)
	}
}

func TestParseMessageMultipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: \"Initech Careers\" <careers@initech.com>",
		"Subject: =?utf-8?q?Paid_internship?=",
		"Date: Tue, 14 Nov 2023 22:13:20 +0000",
		"Message-Id: <abc@initech.com>",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=\"xyz\"",
		"",
		"--xyz",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Deadline: 2024-03-15",
		"--xyz",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version</p>",
		"--xyz--",
		"",
	}, "\r\n")

	msg, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	if msg.ID != "abc@initech.com" {
		t.Fatalf("ID = %q", msg.ID)
	}
	if msg.Sender != "Initech Careers <careers@initech.com>" {
		t.Fatalf("Sender = %q", msg.Sender)
	}
	if msg.SubjectLine != "Paid internship" {
		t.Fatalf("SubjectLine = %q", msg.SubjectLine)
	}
	if msg.ReceivedAtEpochMillis != 1700000000000 {
		t.Fatalf("ReceivedAtEpochMillis = %d", msg.ReceivedAtEpochMillis)
	}
	if msg.SnippetText != "Deadline: 2024-03-15" {
		t.Fatalf("SnippetText = %q", msg.SnippetText)
	}
}

func TestParseMessageHashesMissingID(t *testing.T) {
	raw := "From: jobs@acme.com\r\nSubject: Hi\r\n\r\nbody\r\n"
	first, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	second, _ := ParseMessage([]byte(raw))
	if !strings.HasPrefix(first.ID, "sha256:") || first.ID != second.ID {
		t.Fatalf("unexpected ids %q / %q", first.ID, second.ID)
	}
	if first.ReceivedAtEpochMillis != 0 {
		t.Fatalf("expected no timestamp, got %d", first.ReceivedAtEpochMillis)
	}
}

func TestFormatAddress(t *testing.T) {
	cases := []struct {
		name, address, want string
	}{
		{"Acme", "jobs@acme.com", "Acme <jobs@acme.com>"},
		{"", "jobs@acme.com", "jobs@acme.com"},
		{"Acme", "", "Acme"},
	}
	for _, tc := range cases {
		if got := FormatAddress(tc.name, tc.address); got != tc.want {
			t.Fatalf("FormatAddress(%q, %q) = %q, want %q", tc.name, tc.address, got, tc.want)
		}
	}
}

func TestSnippetKeepsLineBreaks(t *testing.T) {
	got := Snippet("Office in  Berlin \r\n\n\t• Go\n", "")
	if got != "Office in Berlin\n• Go" {
		t.Fatalf("Snippet() = %q", got)
	}

	long := strings.Repeat("a", SnippetLength-2) + "\nbbbb"
	if got := Snippet(long, ""); got != strings.Repeat("a", SnippetLength-2) {
		t.Fatalf("Snippet() cut = %q", got)
	}
}

func TestParsedBodyLinesBoundExtractors(t *testing.T) {
	raw := strings.Join([]string{
		"From: Acme <jobs@acme.com>",
		"Subject: Backend engineer",
		"Date: Tue, 14 Nov 2023 22:13:20 +0000",
		"Message-Id: <lines@acme.com>",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Office in Berlin",
		"Requirements:",
		"• Go",
		"• SQL",
		"Apply at https://acme.com/apply",
		"",
	}, "\r\n")

	msg, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	opp, err := classify.Classify(msg)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if opp.Location != "Berlin" {
		t.Fatalf("Location = %q, want Berlin", opp.Location)
	}
	if want := []string{"Go", "SQL"}; !reflect.DeepEqual(opp.Requirements, want) {
		t.Fatalf("Requirements = %q, want %q", opp.Requirements, want)
	}
	if opp.ApplicationURL != "https://acme.com/apply" {
		t.Fatalf("ApplicationURL = %q", opp.ApplicationURL)
	}
}
