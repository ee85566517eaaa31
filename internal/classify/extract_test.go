package classify

import (
	"reflect"
	"testing"

	"github.com/Vijay-1289/opportune/internal/models"
)

func TestCompanyName(t *testing.T) {
	cases := []struct {
		sender string
		want   string
	}{
		{"noreply@acme.com", "acme.com"},
		{"careers@umbrella.org", "umbrella.org"},
		{"Hiring Team <hiring@stripe.com>", "stripe.com"},
		{"Acme Careers <jobs@acme.com>", "Acme Careers"},
		{`"Globex" <team@globex.io>`, "Globex"},
		{"<jobs@initech.com>", "initech.com"},
		{"Careers <careers@hooli.com>", "hooli.com"},
		{"jobs", UnknownCompany},
		{"   ", UnknownCompany},
		{"", UnknownCompany},
	}

	for _, tc := range cases {
		if got := CompanyName(tc.sender); got != tc.want {
			t.Fatalf("CompanyName(%q) = %q, want %q", tc.sender, got, tc.want)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		text string
		want models.Category
	}{
		{"Summer internship: we are hiring", models.CategoryInternship},
		{"Intern wanted for Q3", models.CategoryInternship},
		{"Senior Go position", models.CategoryJob},
		{"International conference on systems", models.CategoryEvent},
		{"Annual coding competition", models.CategoryHackathon},
		{"Research fellowship open", models.CategoryScholarship},
		{"Photo contest", models.CategoryCompetition},
		{"Weekly newsletter", models.CategoryJob},
	}

	for _, tc := range cases {
		if got := CategoryOf(tc.text); got != tc.want {
			t.Fatalf("CategoryOf(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestPriorityOf(t *testing.T) {
	cases := []struct {
		text string
		want models.Priority
	}{
		{"URGENT: apply today", models.PriorityHigh},
		{"Final reminder for the hackathon", models.PriorityHigh},
		{"Offer expires soon", models.PriorityHigh},
		{"Reminder: webinar tomorrow", models.PriorityMedium},
		{"Action Required on your profile", models.PriorityMedium},
		{"Hello there", models.PriorityLow},
	}

	for _, tc := range cases {
		if got := PriorityOf(tc.text); got != tc.want {
			t.Fatalf("PriorityOf(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDeadline(t *testing.T) {
	cases := []struct {
		snippet string
		want    string
	}{
		{"Apply by 03/15/2024", "2024-03-15"},
		{"Deadline: 2024-03-15.", "2024-03-15"},
		{"due 15/03/2024", "2024-03-15"},
		{"Submit by March 5, 2025 please", "2025-03-05"},
		{"Offer expires Sept. 9, 2024", "2024-09-09"},
		{"deadline: 1/2/99", "1999-01-02"},
		{"deadline 02/30/2024", ""},
		{"Due 13/13/2024", ""},
		{"deadline: not-a-date", ""},
		{"no dates here", ""},
	}

	for _, tc := range cases {
		got, ok := Deadline(tc.snippet)
		if tc.want == "" {
			if ok {
				t.Fatalf("Deadline(%q) = %s, want absent", tc.snippet, got)
			}
			continue
		}
		if !ok {
			t.Fatalf("Deadline(%q) absent, want %s", tc.snippet, tc.want)
		}
		if got.String() != tc.want {
			t.Fatalf("Deadline(%q) = %s, want %s", tc.snippet, got, tc.want)
		}
	}
}

func TestLocation(t *testing.T) {
	cases := []struct {
		snippet string
		want    string
	}{
		{"Location: Berlin, Germany. Apply now", "Berlin"},
		{"Based in Austin. Great team", "Austin"},
		{"Office in London\nApply below", "London"},
		{"This role is hybrid after onboarding", "after onboarding"},
		{"Hybrid: Munich, 3 days onsite", "Munich"},
		{"Hybrid. Fully remote later", RemoteLocation},
		{"Fully REMOTE team", RemoteLocation},
		{"Location:. Apply now", ""},
		{"No place given", ""},
	}

	for _, tc := range cases {
		if got := Location(tc.snippet); got != tc.want {
			t.Fatalf("Location(%q) = %q, want %q", tc.snippet, got, tc.want)
		}
	}
}

func TestTags(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"remote and urgent; remote again URGENT", []string{"Remote", "Urgent"}},
		{"Paid summer internship, full-time", []string{"Full-time", "Paid", "Summer"}},
		{"Winter part-time role", []string{"Part-time", "Winter"}},
		{"nothing to see", []string{}},
	}

	for _, tc := range cases {
		if got := Tags(tc.text); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Tags(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSalary(t *testing.T) {
	cases := []struct {
		snippet string
		want    string
	}{
		{"Remote position, $120k-$180k.", "$120k-$180k"},
		{"Pay: $95,000 per year", "$95,000"},
		{"Base $50,000, plus equity", "$50,000"},
		{"Range 80k-100k DOE", "80k-100k"},
		{"Ship 10kg of gear", ""},
	}

	for _, tc := range cases {
		if got := Salary(tc.snippet); got != tc.want {
			t.Fatalf("Salary(%q) = %q, want %q", tc.snippet, got, tc.want)
		}
	}
}

func TestRequirements(t *testing.T) {
	cases := []struct {
		snippet string
		want    []string
	}{
		{"• Go • Kubernetes • SQL • Docker • Linux", []string{"Go", "Kubernetes", "SQL"}},
		{"Needs:\n· Python\n· Statistics", []string{"Python", "Statistics"}},
		{"• • Go", []string{"Go"}},
		{"plain text", []string{}},
	}

	for _, tc := range cases {
		if got := Requirements(tc.snippet); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Requirements(%q) = %q, want %q", tc.snippet, got, tc.want)
		}
	}
}

func TestApplicationURL(t *testing.T) {
	got := ApplicationURL("Apply at https://jobs.example.com/apply?id=1 today or http://other.example.com")
	if got != "https://jobs.example.com/apply?id=1" {
		t.Fatalf("ApplicationURL() = %q", got)
	}
	if got := ApplicationURL("no link"); got != "" {
		t.Fatalf("ApplicationURL() = %q, want empty", got)
	}
}
