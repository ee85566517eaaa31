package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/Vijay-1289/opportune/internal/models"
	"github.com/Vijay-1289/opportune/internal/ui"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

// ParseFormat maps a user-supplied name to a Format. Empty means table.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

const listSeparator = "; "

func WriteOpportunities(w io.Writer, opps []models.Opportunity, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, opps)
	case FormatCSV:
		return writeCSV(w, opps, ',')
	case FormatTSV:
		return writeCSV(w, opps, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, opps)
	default:
		return writeTable(w, opps, opts)
	}
}

func writeJSON(w io.Writer, opps []models.Opportunity) error {
	if opps == nil {
		opps = []models.Opportunity{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opps)
}

func writeCSV(w io.Writer, opps []models.Opportunity, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, opp := range opps {
		if err := writer.Write(csvRow(opp)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, opps []models.Opportunity, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, opp := range opps {
		fmt.Fprintln(tw, strings.Join(tableRow(opp, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, opps []models.Opportunity) error {
	if len(opps) == 0 {
		_, err := fmt.Fprintln(w, "No opportunities.")
		return err
	}
	for _, opp := range opps {
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(opp.Subject), safe(opp.Company)),
			fmt.Sprintf("  Category: %s, priority: %s", opp.Category, opp.Priority),
			fmt.Sprintf("  Received: %s", opp.Date),
		}
		if opp.Deadline != nil {
			lines = append(lines, fmt.Sprintf("  Deadline: %s", opp.Deadline))
		}
		if opp.Location != "" {
			lines = append(lines, fmt.Sprintf("  Location: %s", safe(opp.Location)))
		}
		if opp.Salary != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(opp.Salary)))
		}
		if len(opp.Tags) > 0 {
			lines = append(lines, fmt.Sprintf("  Tags: %s", strings.Join(opp.Tags, ", ")))
		}
		for _, requirement := range opp.Requirements {
			lines = append(lines, fmt.Sprintf("  - %s", safe(requirement)))
		}
		if link := safe(opp.ApplicationURL); link != "" {
			lines = append(lines, fmt.Sprintf("  Apply: [Open link](<%s>)", link))
		}
		lines = append(lines, fmt.Sprintf("  Summary: %s", safe(opp.Description)))
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"date",
		"category",
		"priority",
		"company",
		"subject",
		"deadline",
		"location",
		"salary",
		"tags",
		"requirements",
		"application_url",
		"description",
	}
}

func csvRow(opp models.Opportunity) []string {
	return []string{
		opp.ID,
		opp.Date.String(),
		string(opp.Category),
		string(opp.Priority),
		opp.Company,
		opp.Subject,
		deadlineString(opp.Deadline),
		opp.Location,
		opp.Salary,
		strings.Join(opp.Tags, listSeparator),
		strings.Join(opp.Requirements, listSeparator),
		opp.ApplicationURL,
		opp.Description,
	}
}

func deadlineString(deadline *models.Date) string {
	if deadline == nil || deadline.IsZero() {
		return ""
	}
	return deadline.String()
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"date",
		"category",
		"priority",
		"company",
		"subject",
		"deadline",
		"link",
	}
}

func tableRow(opp models.Opportunity, output *termenv.Output, opts WriteOptions) []string {
	link := safe(opp.ApplicationURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		displayURL = ui.ColorizeLink(output, opts.ColorEnabled, displayURL)
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}

	priority := ui.ColorizePriority(output, opts.ColorEnabled, string(opp.Priority))

	deadline := deadlineString(opp.Deadline)
	if deadline == "" {
		deadline = "-"
	}
	return []string{
		opp.Date.String(),
		string(opp.Category),
		priority,
		safe(opp.Company),
		truncate(safe(opp.Subject), 60),
		deadline,
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	return truncate(label, 60)
}

func truncate(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen-3]) + "..."
}
