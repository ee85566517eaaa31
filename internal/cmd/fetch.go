package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/classify"
	"github.com/Vijay-1289/opportune/internal/config"
	"github.com/Vijay-1289/opportune/internal/credential"
	"github.com/Vijay-1289/opportune/internal/models"
	"github.com/Vijay-1289/opportune/internal/network"
	"github.com/Vijay-1289/opportune/internal/source"
)

// FetchOptions selects and bounds the mailbox a command reads from.
// Zero values fall back to the config file.
type FetchOptions struct {
	Source     string `help:"Mailbox source: gmail, imap, mbox (default from config)."`
	Token      string `help:"Gmail OAuth access token (overrides env and keyring)."`
	MaxResults int    `help:"Maximum message ids to list."`
	Limit      int    `help:"Maximum messages to fetch and classify."`
	NewerThan  int    `name:"newer-than" help:"Only messages received in the last N days."`
	Mbox       string `help:"Path to an mbox archive (mbox source)."`
	IMAPHost   string `name:"imap-host" help:"IMAP server host."`
	IMAPPort   int    `name:"imap-port" help:"IMAP server port."`
	IMAPUser   string `name:"imap-user" help:"IMAP username."`
	Proxies    string `help:"Comma-separated proxy URLs for the Gmail API." env:"OPPORTUNE_PROXIES"`
	Timeout    int    `help:"Request timeout in seconds." default:"30"`
	Workers    int    `help:"Classification workers."`
}

func (o FetchOptions) params(cfg config.Config) models.FetchParams {
	return models.FetchParams{
		MaxResults:    defaultInt(o.MaxResults, cfg.MaxResults),
		Limit:         defaultInt(o.Limit, cfg.FetchLimit),
		NewerThanDays: defaultInt(o.NewerThan, cfg.NewerThanDays),
	}
}

func (o FetchOptions) sourceName(cfg config.Config) string {
	name := firstNonEmpty(o.Source, cfg.DefaultSource, source.NameGmail)
	return source.NormalizeName(name)
}

// newRunLogger tags every event of one command run with a fresh run id.
func newRunLogger(base zerolog.Logger) zerolog.Logger {
	return base.With().Str("run_id", uuid.NewString()).Logger()
}

// newHTTPClient builds the Gmail transport with optional proxy rotation.
func newHTTPClient(proxiesFlag string, timeout time.Duration, logger zerolog.Logger) (*network.Client, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, network.DefaultBanDuration, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("proxies", rotator.Len()).Msg("proxy rotation enabled")
	}
	return network.NewClient(rotator, timeout, logger)
}

// buildSource resolves credentials and settings for the selected source.
func buildSource(ctx *Context, opts FetchOptions, logger zerolog.Logger) (source.Source, error) {
	cfg := ctx.Config
	name := opts.sourceName(cfg)
	settings := source.Settings{
		MboxPath: firstNonEmpty(opts.Mbox, cfg.MboxPath),
		IMAP: source.IMAPSettings{
			Host:     firstNonEmpty(opts.IMAPHost, cfg.IMAPHost),
			Port:     defaultInt(opts.IMAPPort, cfg.IMAPPort),
			Username: firstNonEmpty(opts.IMAPUser, cfg.IMAPUser),
			TLS:      cfg.IMAPTLS,
		},
		Logger: logger,
	}

	switch name {
	case source.NameGmail:
		token, origin, err := ctx.Credentials.Token(opts.Token)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("origin", string(origin)).Msg("access token resolved")
		client, err := newHTTPClient(opts.Proxies, time.Duration(opts.Timeout)*time.Second, logger)
		if err != nil {
			return nil, err
		}
		settings.Token = token
		settings.Client = client
	case source.NameIMAP:
		password, _, err := ctx.Credentials.IMAPPassword("")
		if err != nil {
			return nil, err
		}
		settings.IMAP.Password = password
	}

	return ctx.sources()(name, settings)
}

// loadBatch fetches from the configured source and classifies the result.
func loadBatch(runCtx context.Context, ctx *Context, opts FetchOptions) (classify.Batch, error) {
	logger := newRunLogger(ctx.Logger)

	src, err := buildSource(ctx, opts, logger)
	if err != nil {
		return classify.Batch{}, err
	}

	params := opts.params(ctx.Config)
	logger.Debug().
		Str("source", src.Name()).
		Int("max_results", params.MaxResults).
		Int("limit", params.Limit).
		Int("newer_than_days", params.NewerThanDays).
		Msg("fetching messages")

	stop := startIndicator(ctx, "Fetching")
	messages, err := src.Fetch(runCtx, params)
	if stop != nil {
		stop()
	}
	if err != nil {
		if source.IsAuthError(err) {
			return classify.Batch{}, fmt.Errorf("%w (refresh the token with `opportune auth set-token`)", err)
		}
		return classify.Batch{}, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}

	return classifyMessages(ctx, opts.Workers, messages, logger), nil
}

func classifyMessages(ctx *Context, workers int, messages []models.RawMessage, logger zerolog.Logger) classify.Batch {
	batch := classify.ClassifyAll(messages, classify.Options{
		Workers: defaultInt(workers, ctx.Config.Workers),
		Logger:  &logger,
	})
	logger.Debug().
		Int("messages", batch.Total()).
		Int("opportunities", len(batch.Opportunities)).
		Int("skipped", len(batch.Skipped)).
		Msg("classified")
	reportSkipped(ctx, batch.Skipped)
	return batch
}

func reportSkipped(ctx *Context, skipped []classify.SkipError) {
	if ctx == nil || ctx.UI == nil || !ctx.Verbose || len(skipped) == 0 {
		return
	}
	ctx.UI.Warnf("\nSkipped messages:")
	for _, skip := range skipped {
		id := skip.ID
		if id == "" {
			id = "(no id)"
		}
		ctx.UI.Warnf("  %s: %s", id, skipReason(skip))
	}
}

func isMissingCredential(err error) bool {
	return errors.Is(err, credential.ErrNoToken) || errors.Is(err, credential.ErrNoIMAPPassword)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
