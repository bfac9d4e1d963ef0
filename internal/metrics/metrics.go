package metrics

import (
	"sync/atomic"
	"time"
)

// Counter is a lock-free monotonically increasing counter.
type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Process-wide counters, reported by the health endpoint.
var (
	Requests        Counter
	OrdersPlaced    Counter
	OrdersCanceled  Counter
	OrdersCompleted Counter
)

var startedAt = time.Now()

// Uptime reports how long the process has been running.
func Uptime() time.Duration {
	return time.Since(startedAt)
}
