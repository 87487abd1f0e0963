// Package clock provides the wall clock and interval scheduler used outside tests.
package clock

import (
	"sync"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
)

// System reads the local wall clock.
type System struct{}

// Now implements port.Clock.
func (System) Now() time.Time {
	return time.Now()
}

// Ticker runs callbacks on real time tickers, one goroutine per registration.
type Ticker struct{}

// Every implements port.Scheduler. fn never runs concurrently with itself.
// The returned cancel func is idempotent and does not wait for a running fn.
func (Ticker) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// Fixed is a port.Clock pinned to one instant.
type Fixed time.Time

// Now implements port.Clock.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

var (
	_ port.Clock     = System{}
	_ port.Clock     = Fixed{}
	_ port.Scheduler = Ticker{}
)
