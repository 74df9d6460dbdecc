package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-console/internal/panel"
)

// Registry keeps one shell per browser session.
type Registry struct {
	catalog Catalog
	api     panel.API
	idle    time.Duration

	mu     sync.Mutex
	shells map[string]*Shell
}

func NewRegistry(catalog Catalog, api panel.API, idle time.Duration) *Registry {
	return &Registry{catalog: catalog, api: api, idle: idle, shells: make(map[string]*Shell)}
}

// Shell returns the session's shell, creating it on first use.
func (r *Registry) Shell(sid string) *Shell {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shells[sid]
	if !ok {
		s = NewShell(r.catalog, r.api)
		r.shells[sid] = s
	}
	return s
}

// Drop closes and forgets the session's shell, typically on sign-out.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	s, ok := r.shells[sid]
	delete(r.shells, sid)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shells)
}

// Sweep drops shells idle for longer than the registry's idle timeout and
// returns how many were dropped.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var stale []*Shell
	for sid, s := range r.shells {
		if s.idleSince(now) > r.idle {
			stale = append(stale, s)
			delete(r.shells, sid)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// StartCleanupLoop sweeps every interval until ctx is done.
func (r *Registry) StartCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
