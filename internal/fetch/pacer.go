package fetch

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces successive calls to the same host by a fixed interval,
// independent of any retry backoff. One limiter per hostname.
type Pacer struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
}

func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Pacer{
		hosts: make(map[string]*rate.Limiter),
		limit: rate.Every(interval),
	}
}

func (p *Pacer) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if lim, ok := p.hosts[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(p.limit, 1)
	p.hosts[host] = lim
	return lim
}

// WaitURL blocks until the host behind rawURL may be called again.
func (p *Pacer) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return p.limiterFor("_").Wait(ctx)
	}
	return p.limiterFor(u.Host).Wait(ctx)
}
