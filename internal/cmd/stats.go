package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Vijay-1289/opportune/internal/filter"
	"github.com/Vijay-1289/opportune/internal/models"
)

type StatsCmd struct {
	FetchOptions
	Input string `help:"Read raw messages from a JSON file (or - for stdin) instead of a mailbox."`
}

func (s *StatsCmd) Run(ctx *Context) error {
	var opps []models.Opportunity
	if strings.TrimSpace(s.Input) != "" {
		messages, err := readMessages(ctx, s.Input)
		if err != nil {
			return err
		}
		opps = classifyMessages(ctx, s.Workers, messages, newRunLogger(ctx.Logger)).Opportunities
	} else {
		batch, err := loadBatch(context.Background(), ctx, s.FetchOptions)
		if err != nil {
			return err
		}
		opps = batch.Opportunities
	}

	return writeStats(ctx, filter.Summarize(opps, ctx.now()))
}

// statsKeys lists "all" first, then categories in their canonical order.
func statsKeys() []string {
	keys := make([]string, 0, len(models.Categories)+1)
	keys = append(keys, filter.All)
	for _, category := range models.Categories {
		keys = append(keys, string(category))
	}
	return keys
}

func writeStats(ctx *Context, stats filter.Stats) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	if ctx.PlainText {
		for _, key := range statsKeys() {
			entry := stats[key]
			fmt.Fprintf(ctx.Out, "%s\t%d\t%d\t%d\n", key, entry.Total, entry.New, entry.Urgent)
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "category\ttotal\tnew\turgent")
	for _, key := range statsKeys() {
		entry := stats[key]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", key, entry.Total, entry.New, entry.Urgent)
	}
	return tw.Flush()
}
