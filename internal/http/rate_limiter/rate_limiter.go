package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors hands out one token bucket per client IP.
type Visitors struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*clientLimiter
}

func NewVisitors(rps float64, burst int) *Visitors {
	return &Visitors{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*clientLimiter),
	}
}

func (v *Visitors) GetVisitor(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(v.rps, v.burst)
		v.visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

// Allow reports whether ip may make one more request now.
func (v *Visitors) Allow(ip string) bool {
	return v.GetVisitor(ip).Allow()
}

// StartVisitorCleanupLoop forgets visitors unseen for longer than idle, checking
// every interval until ctx is done.
func (v *Visitors) StartVisitorCleanupLoop(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			for ip, c := range v.visitors {
				if time.Since(c.lastSeen) > idle {
					delete(v.visitors, ip)
				}
			}
			v.mu.Unlock()
		}
	}
}

func (v *Visitors) CleanupAllVisitors() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visitors = make(map[string]*clientLimiter)
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}
