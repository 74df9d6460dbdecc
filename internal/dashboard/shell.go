package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-console/internal/panel"
)

// Shell is one admin's dashboard. Only the active page's panel is mounted.
type Shell struct {
	catalog Catalog
	api     panel.API

	mu       sync.Mutex
	active   Page
	ready    bool
	panel    panel.Controller
	summary  Summary
	gen      uint64
	lastSeen time.Time
}

func NewShell(catalog Catalog, api panel.API) *Shell {
	return &Shell{catalog: catalog, api: api, lastSeen: time.Now()}
}

// Switch makes page active. The previous panel is unmounted and a fresh one
// mounted; selecting the page already shown changes nothing.
func (s *Shell) Switch(ctx context.Context, page Page) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	if s.ready && s.active == page {
		s.mu.Unlock()
		return
	}
	old := s.panel
	s.active = page
	s.ready = true
	s.panel = s.catalog.controller(page, s.api)
	s.summary = Summary{}
	s.gen++
	gen := s.gen
	next := s.panel
	s.mu.Unlock()

	if old != nil {
		old.Unmount()
	}
	if next != nil {
		next.Mount(ctx)
		return
	}
	s.loadSummary(ctx, gen)
}

// Reload re-fetches whatever the active page shows.
func (s *Shell) Reload(ctx context.Context) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	if !s.ready {
		s.mu.Unlock()
		return
	}
	p := s.panel
	gen := s.gen
	s.mu.Unlock()

	if p != nil {
		p.Refresh(ctx)
		return
	}
	s.loadSummary(ctx, gen)
}

func (s *Shell) loadSummary(ctx context.Context, gen uint64) {
	summary := s.catalog.Summarize(ctx, s.api)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen && s.panel == nil {
		s.summary = summary
	}
}

// Panel returns the mounted panel if it manages the named resource.
func (s *Shell) Panel(name string) (panel.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if s.panel == nil || s.panel.Name() != name {
		return nil, false
	}
	return s.panel, true
}

func (s *Shell) Active() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close unmounts the active panel.
func (s *Shell) Close() {
	s.mu.Lock()
	p := s.panel
	s.panel = nil
	s.ready = false
	s.gen++
	s.mu.Unlock()

	if p != nil {
		p.Unmount()
	}
}

// View is what the admin template renders.
type View struct {
	Active  Page
	Pages   []Page
	Panel   *panel.View
	Summary Summary
}

func (s *Shell) View() View {
	s.mu.Lock()
	active, p, summary := s.active, s.panel, s.summary
	s.mu.Unlock()

	v := View{Active: active, Pages: Pages(), Summary: summary}
	if p != nil {
		pv := p.View()
		v.Panel = &pv
	}
	return v
}

func (s *Shell) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
