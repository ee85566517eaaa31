package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Vijay-1289/opportune/internal/filter"
	"github.com/Vijay-1289/opportune/internal/models"
)

type ClassifyCmd struct {
	Input   string `arg:"" help:"Path to a JSON array of raw messages, or - for stdin."`
	Workers int    `help:"Classification workers."`
	FilterOptions
	OutputOptions
}

func (c *ClassifyCmd) Run(ctx *Context) error {
	criteria, err := c.criteria()
	if err != nil {
		return err
	}

	messages, err := readMessages(ctx, c.Input)
	if err != nil {
		return err
	}

	batch := classifyMessages(ctx, c.Workers, messages, newRunLogger(ctx.Logger))
	opps := filter.Apply(batch.Opportunities, criteria, ctx.now())
	if err := writeOpportunities(ctx, c.OutputOptions, opps); err != nil {
		return err
	}
	printScanSummary(ctx, opps, len(batch.Skipped))
	return nil
}

func readMessages(ctx *Context, input string) ([]models.RawMessage, error) {
	var reader io.Reader
	switch strings.TrimSpace(input) {
	case "":
		return nil, fmt.Errorf("input path is required (use - for stdin)")
	case "-":
		if ctx.In == nil {
			return nil, fmt.Errorf("stdin is not available")
		}
		reader = ctx.In
	default:
		file, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		reader = file
	}

	var messages []models.RawMessage
	if err := json.NewDecoder(reader).Decode(&messages); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array of messages: %w", displayInput(input), err)
	}
	return messages, nil
}

func displayInput(input string) string {
	if input == "-" {
		return "stdin"
	}
	return fmt.Sprintf("%q", input)
}
