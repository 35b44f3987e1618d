// Package throttle rate limits write requests, globally and per caller.
package throttle

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a caller's limiter survives without requests.
const idleLimiterTTL = time.Hour

// Config configuration for Throttle
type Config struct {
	TotalNPerSec, TotalBurst int
	EachNPerSec, EachBurst   int
}

// Throttle allows at most TotalNPerSec requests overall,
// and at most EachNPerSec requests per key.
type Throttle struct {
	cfg   Config
	total *rate.Limiter
	each  *cache.Cache
}

// New create new Throttle
func New(cfg Config) (*Throttle, error) {
	if cfg.TotalNPerSec <= 0 || cfg.EachNPerSec <= 0 {
		return nil, errors.New("NPerSec must bigger than 0")
	}
	if cfg.TotalBurst < cfg.TotalNPerSec || cfg.EachBurst < cfg.EachNPerSec {
		return nil, errors.New("burst must not be smaller than NPerSec")
	}

	return &Throttle{
		cfg:   cfg,
		total: rate.NewLimiter(rate.Limit(cfg.TotalNPerSec), cfg.TotalBurst),
		each:  cache.New(idleLimiterTTL, 10*time.Minute),
	}, nil
}

// Allow reports whether key may issue one more request now.
func (t *Throttle) Allow(key string) bool {
	if !t.limiter(key).Allow() {
		return false
	}

	return t.total.Allow()
}

func (t *Throttle) limiter(key string) *rate.Limiter {
	if v, ok := t.each.Get(key); ok {
		t.each.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(rate.Limit(t.cfg.EachNPerSec), t.cfg.EachBurst)
	if err := t.each.Add(key, lim, cache.DefaultExpiration); err != nil {
		// lost the race, use the winner
		if v, ok := t.each.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}

	return lim
}
