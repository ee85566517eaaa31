package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vijay-1289/opportune/internal/server"
	"github.com/Vijay-1289/opportune/internal/source"
)

type ServeCmd struct {
	Addr       string `help:"Listen address (default from config)."`
	MaxResults int    `help:"Maximum message ids to list per request."`
	Limit      int    `help:"Maximum messages to fetch per request."`
	NewerThan  int    `name:"newer-than" help:"Only messages received in the last N days."`
	Workers    int    `help:"Classification workers."`
	Proxies    string `help:"Comma-separated proxy URLs for the Gmail API." env:"OPPORTUNE_PROXIES"`
	Timeout    int    `help:"Upstream request timeout in seconds." default:"30"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newServer(ctx, s).Run(runCtx)
}

func newServer(ctx *Context, s *ServeCmd) *server.Server {
	cfg := ctx.Config
	logger := newRunLogger(ctx.Logger)
	fetch := FetchOptions{MaxResults: s.MaxResults, Limit: s.Limit, NewerThan: s.NewerThan}

	client, clientErr := newHTTPClient(s.Proxies, time.Duration(s.Timeout)*time.Second, logger)
	if clientErr != nil {
		logger.Warn().Err(clientErr).Msg("gmail client unavailable; authenticated routes disabled")
	}

	var factory server.SourceFactory
	if clientErr == nil {
		build := ctx.sources()
		factory = func(token string) (source.Source, error) {
			return build(source.NameGmail, source.Settings{
				Token:  token,
				Client: client,
				Logger: logger,
			})
		}
	}

	return server.New(server.Options{
		Addr:    firstNonEmpty(s.Addr, cfg.ListenAddr),
		Sources: factory,
		Fetch:   fetch.params(cfg),
		Workers: defaultInt(s.Workers, cfg.Workers),
		Logger:  logger,
		Debug:   ctx.Verbose,
		Now:     ctx.now,
	})
}
