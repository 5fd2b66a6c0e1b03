package realtime

import "sync/atomic"

// ConnectionLimiter caps total concurrent WebSocket connections per process.
// Lock-free; Acquire loops on compare-and-swap instead of taking a mutex.
type ConnectionLimiter struct {
	current atomic.Int64
	max     int64
}

func NewConnectionLimiter(max int64) *ConnectionLimiter {
	return &ConnectionLimiter{max: max}
}

// Acquire attempts to claim a connection slot. Returns false at capacity.
func (l *ConnectionLimiter) Acquire() bool {
	for {
		current := l.current.Load()
		if current >= l.max {
			return false
		}
		if l.current.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

// Release returns a connection slot.
func (l *ConnectionLimiter) Release() {
	l.current.Add(-1)
}

// Current returns the number of claimed slots.
func (l *ConnectionLimiter) Current() int64 {
	return l.current.Load()
}

// Max returns the configured capacity.
func (l *ConnectionLimiter) Max() int64 {
	return l.max
}
