package port

import "time"

// Clock provides the local wall time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs recurring work.
type Scheduler interface {
	// Every calls fn once per interval until the returned cancel is called.
	// cancel is idempotent.
	Every(interval time.Duration, fn func()) (cancel func())
}
