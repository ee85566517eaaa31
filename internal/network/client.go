package network

import (
	"errors"
	"math/rand"
	"net/url"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
)

var ErrRequestFailed = errors.New("request failed")

// DefaultTimeout bounds one request including the body read.
const DefaultTimeout = 30 * time.Second

// Doer is the part of Client that transports depend on.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Client is safe for concurrent use. The proxy is client-wide state, so
// requests are serialized while a rotator is configured.
type Client struct {
	http       tls_client.HttpClient
	rotator    *Rotator
	userAgents []string
	logger     zerolog.Logger

	proxyMu sync.Mutex
	randMu  sync.Mutex
	rand    *rand.Rand
}

// NewClient builds a Chrome-fingerprinted client. rotator may be nil.
func NewClient(rotator *Rotator, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(int(timeout/time.Second)),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:       client,
		rotator:    rotator,
		userAgents: append([]string{}, userAgents...),
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if c.rotator.Len() > 0 {
		c.proxyMu.Lock()
		defer c.proxyMu.Unlock()
	}

	proxy, err := c.rotateProxy()
	if err != nil {
		return nil, err
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", req.URL.Redacted()).Msg("request failed")
		return nil, errors.Join(ErrRequestFailed, err)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) rotateProxy() (*url.URL, error) {
	if c.rotator.Len() == 0 {
		return nil, nil
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		return nil, err
	}
	if err := c.http.SetProxy(proxy.String()); err != nil {
		return nil, err
	}
	return proxy, nil
}

func (c *Client) randomUA() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	c.randMu.Lock()
	defer c.randMu.Unlock()
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}
