package systempref

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/bnema/sitetheme/internal/logging"
)

// DefaultPollInterval is used when the configured interval is not positive.
const DefaultPollInterval = 2 * time.Second

// Poller refreshes resolvers periodically so OS changes reach OnChange listeners.
type Poller struct {
	ctx       context.Context
	scheduler port.Scheduler
	interval  time.Duration
	resolvers []*Resolver

	mu     sync.Mutex
	cancel func()
}

// NewPoller creates a stopped poller.
func NewPoller(ctx context.Context, scheduler port.Scheduler, interval time.Duration, resolvers ...*Resolver) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		ctx:       logging.WithComponent(ctx, "systempref"),
		scheduler: scheduler,
		interval:  interval,
		resolvers: resolvers,
	}
}

// Start primes every resolver and begins polling. Calling Start twice is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	log := logging.FromContext(p.ctx)
	for _, r := range p.resolvers {
		pref := r.Refresh()
		log.Debug().Str("signal", r.Name()).Bool("value", pref.Value).Str("source", pref.Source).Msg("system preference resolved")
	}
	p.cancel = p.scheduler.Every(p.interval, p.Tick)
}

// Tick refreshes every resolver once.
func (p *Poller) Tick() {
	for _, r := range p.resolvers {
		r.Refresh()
	}
}

// Stop cancels polling.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
