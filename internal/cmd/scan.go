package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/Vijay-1289/opportune/internal/classify"
	"github.com/Vijay-1289/opportune/internal/export"
	"github.com/Vijay-1289/opportune/internal/filter"
	"github.com/Vijay-1289/opportune/internal/models"
)

type ScanCmd struct {
	FetchOptions
	FilterOptions
	OutputOptions
}

type FilterOptions struct {
	Category  string `help:"Only this category (internship, job, hackathon, scholarship, event, competition)." default:"all"`
	Priority  string `help:"Only this priority (high, medium, low)." default:"all"`
	Company   string `help:"Company name contains."`
	Query     string `short:"q" help:"Subject, company, description or tag contains."`
	DateRange string `name:"date-range" help:"Received within: all, today, week, month." enum:"all,today,week,month" default:"all"`
}

func (o FilterOptions) criteria() (filter.Criteria, error) {
	return filter.ParseCriteria(o.Category, o.Priority, o.Company, o.Query, o.DateRange)
}

type OutputOptions struct {
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

func (s *ScanCmd) Run(ctx *Context) error {
	criteria, err := s.criteria()
	if err != nil {
		return err
	}

	batch, err := loadBatch(context.Background(), ctx, s.FetchOptions)
	if err != nil {
		return err
	}

	opps := filter.Apply(batch.Opportunities, criteria, ctx.now())
	if err := writeOpportunities(ctx, s.OutputOptions, opps); err != nil {
		return err
	}
	printScanSummary(ctx, opps, len(batch.Skipped))
	return nil
}

func writeOpportunities(ctx *Context, opts OutputOptions, opps []models.Opportunity) error {
	format, err := resolveFormat(ctx, opts)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteOpportunities(writer, opps, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	})
}

func resolveFormat(ctx *Context, opts OutputOptions) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if opts.Output != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func printScanSummary(ctx *Context, opps []models.Opportunity, skipped int) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatScanSummary(opps, skipped))
}

func formatScanSummary(opps []models.Opportunity, skipped int) string {
	counts := countByCategory(opps)
	if len(counts) == 0 {
		return fmt.Sprintf("summary: opportunities=0 skipped=%d by_category=none", skipped)
	}

	parts := make([]string, 0, len(counts))
	for _, count := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", count.category, count.total))
	}
	return fmt.Sprintf("summary: opportunities=%d skipped=%d by_category=%s", len(opps), skipped, strings.Join(parts, ", "))
}

type categoryCount struct {
	category models.Category
	total    int
}

func countByCategory(opps []models.Opportunity) []categoryCount {
	totals := make(map[models.Category]int, len(models.Categories))
	for _, opp := range opps {
		totals[opp.Category]++
	}

	counts := make([]categoryCount, 0, len(totals))
	for category, total := range totals {
		counts = append(counts, categoryCount{category: category, total: total})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].category < counts[j].category
	})
	return counts
}

func skipReason(skip classify.SkipError) string {
	if skip.Reason == nil {
		return "unknown"
	}
	return skip.Reason.Error()
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startIndicator(ctx *Context, label string) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2K%s... %ds %s", label, seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
