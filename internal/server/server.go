// Package server exposes the classifier over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Vijay-1289/opportune/internal/classify"
	"github.com/Vijay-1289/opportune/internal/filter"
	"github.com/Vijay-1289/opportune/internal/models"
	"github.com/Vijay-1289/opportune/internal/source"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// maxClassifyBody caps POST /api/v1/classify payloads.
const maxClassifyBody = 8 << 20

// SourceFactory builds a mailbox source for one request's bearer token.
type SourceFactory func(token string) (source.Source, error)

type Options struct {
	Addr    string
	Sources SourceFactory
	Fetch   models.FetchParams
	Workers int
	Logger  zerolog.Logger
	Debug   bool
	// Now defaults to time.Now; it anchors date filters and stats.
	Now func() time.Time
}

type Server struct {
	opts    Options
	router  *gin.Engine
	server  *http.Server
	metrics *Metrics
}

type classifyResponse struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Skipped       int                  `json:"skipped"`
}

func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{opts: opts, metrics: NewMetrics()}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(opts.Logger))
	router.Use(metricsMiddleware(s.metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/classify", s.handleClassify)
	v1.GET("/opportunities", s.handleOpportunities)
	v1.GET("/stats", s.handleStats)

	s.router = router
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", s.opts.Addr).Msg("listening")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleClassify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxClassifyBody)

	var messages []models.RawMessage
	if err := c.ShouldBindJSON(&messages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a JSON array of messages: " + err.Error()})
		return
	}

	batch := s.classify(c, messages)
	c.JSON(http.StatusOK, classifyResponse{
		Opportunities: batch.Opportunities,
		Total:         batch.Total(),
		Skipped:       len(batch.Skipped),
	})
}

func (s *Server) handleOpportunities(c *gin.Context) {
	criteria, err := filter.ParseCriteria(
		c.Query("category"),
		c.Query("priority"),
		c.Query("company"),
		c.Query("q"),
		c.Query("date_range"),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, ok := s.fetchAndClassify(c)
	if !ok {
		return
	}
	filtered := filter.Apply(batch.Opportunities, criteria, s.opts.Now())
	c.JSON(http.StatusOK, classifyResponse{
		Opportunities: filtered,
		Total:         len(filtered),
		Skipped:       len(batch.Skipped),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	batch, ok := s.fetchAndClassify(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, filter.Summarize(batch.Opportunities, s.opts.Now()))
}

// fetchAndClassify writes the error response itself and reports false on failure.
func (s *Server) fetchAndClassify(c *gin.Context) (classify.Batch, bool) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.Header("WWW-Authenticate", `Bearer realm="opportune"`)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return classify.Batch{}, false
	}
	if s.opts.Sources == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no mailbox source configured"})
		return classify.Batch{}, false
	}

	logger := requestLogger(c, s.opts.Logger)
	src, err := s.opts.Sources(token)
	if err != nil {
		logger.Error().Err(err).Msg("build source")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "source unavailable"})
		return classify.Batch{}, false
	}

	messages, err := src.Fetch(c.Request.Context(), s.opts.Fetch)
	if err != nil {
		if source.IsAuthError(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return classify.Batch{}, false
		}
		logger.Warn().Err(err).Str("source", src.Name()).Msg("fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetch messages: " + err.Error()})
		return classify.Batch{}, false
	}

	return s.classify(c, messages), true
}

func (s *Server) classify(c *gin.Context, messages []models.RawMessage) classify.Batch {
	logger := requestLogger(c, s.opts.Logger)
	batch := classify.ClassifyAll(messages, classify.Options{Workers: s.opts.Workers, Logger: &logger})
	s.metrics.ObserveBatch(batch)
	logger.Debug().
		Int("messages", batch.Total()).
		Int("opportunities", len(batch.Opportunities)).
		Int("skipped", len(batch.Skipped)).
		Msg("classified batch")
	return batch
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
