package network

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrNoProxies = errors.New("no proxies available")

// DefaultBanDuration is how long a proxy sits out after a 403 or 429.
const DefaultBanDuration = 5 * time.Minute

// Rotator hands out proxies round-robin, skipping the ones a provider has
// recently refused.
type Rotator struct {
	proxies     []*url.URL
	banDuration time.Duration
	bannedUntil map[string]time.Time
	index       int
	now         func() time.Time
	logger      zerolog.Logger
	mu          sync.Mutex
}

func NewRotator(raw []string, banDuration time.Duration, logger zerolog.Logger) (*Rotator, error) {
	if banDuration <= 0 {
		banDuration = DefaultBanDuration
	}
	rotator := &Rotator{
		banDuration: banDuration,
		bannedUntil: map[string]time.Time{},
		now:         time.Now,
		logger:      logger,
	}

	for _, proxy := range raw {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.New("invalid proxy url: " + proxy)
		}
		rotator.proxies = append(rotator.proxies, u)
	}

	return rotator, nil
}

// Len reports how many proxies are configured, banned or not.
func (r *Rotator) Len() int {
	if r == nil {
		return 0
	}
	return len(r.proxies)
}

func (r *Rotator) Next() (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 {
		return nil, ErrNoProxies
	}

	for range r.proxies {
		proxy := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)

		if !r.isBanned(proxy) {
			return proxy, nil
		}
	}
	return nil, ErrNoProxies
}

// Report bans proxy for the ban duration when status signals throttling.
func (r *Rotator) Report(proxy *url.URL, status int) {
	if proxy == nil {
		return
	}
	if status != 403 && status != 429 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	until := r.now().Add(r.banDuration)
	r.bannedUntil[proxy.String()] = until
	r.logger.Debug().
		Str("proxy", proxy.Redacted()).
		Int("status", status).
		Time("until", until).
		Msg("proxy banned")
}

func (r *Rotator) isBanned(proxy *url.URL) bool {
	until, ok := r.bannedUntil[proxy.String()]
	if !ok {
		return false
	}
	if r.now().After(until) {
		delete(r.bannedUntil, proxy.String())
		return false
	}
	return true
}
