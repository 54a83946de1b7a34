package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// Config controls refresh and expiry behaviour.
type Config struct {
	// RefreshInterval is how often a view re-fetches (default: 5s)
	RefreshInterval time.Duration
	// IdleTimeout stops a view that has not been used (default: 10m)
	IdleTimeout time.Duration
	// BannerTTL is how long banners stay visible (default: 3s)
	BannerTTL time.Duration
	// ProtectedAdminEmail can never be deleted (default: admin@admin.com)
	ProtectedAdminEmail string
	// MaxImports caps concurrent bulk imports across views (default: 2)
	MaxImports int
	// ImportMaxWait is how long an import waits for a slot (default: 10s)
	ImportMaxWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 5 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 10 * time.Minute
	}
	if c.BannerTTL <= 0 {
		c.BannerTTL = 3 * time.Second
	}
	if c.ProtectedAdminEmail == "" {
		c.ProtectedAdminEmail = leads.ProtectedAdminEmail
	}
	return c
}

// Hub owns one View per logged-in browser and stops views that go idle.
type Hub struct {
	cfg     Config
	history History
	imports *ImportSlots

	ctx    context.Context
	mu     sync.Mutex
	views  map[string]*View
	closed bool
}

// NewHub creates a hub. Refreshers run under ctx and stop when it ends.
func NewHub(ctx context.Context, cfg Config, history History) *Hub {
	if history == nil {
		history = NewMemoryHistory(0)
	}
	return &Hub{
		cfg:     cfg.withDefaults(),
		history: history,
		imports: NewImportSlots(cfg.MaxImports, cfg.ImportMaxWait),
		ctx:     ctx,
		views:   make(map[string]*View),
	}
}

// History returns the import history the hub's views record into.
func (h *Hub) History() History {
	return h.history
}

// Imports returns the slots shared by every view's bulk imports.
func (h *Hub) Imports() *ImportSlots {
	return h.imports
}

// View returns the view for key, starting one if needed. A view created
// with a different token is replaced.
func (h *Hub) View(key, token string, b Backend) *View {
	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.views[key]; ok && v.token == token {
		v.touch()
		return v
	} else if ok {
		v.stop()
	}

	v := newView(b, token, h.cfg, h.history, h.imports)
	if !h.closed {
		ctx, cancel := context.WithCancel(h.ctx)
		v.cancel = cancel
		go v.run(ctx, h.cfg.RefreshInterval)
	}
	h.views[key] = v
	return v
}

// Drop stops and forgets the view for key.
func (h *Hub) Drop(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.views[key]; ok {
		v.stop()
		delete(h.views, key)
	}
}

// Len returns the number of live views.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.views)
}

// Run expires idle views until ctx is cancelled, then stops every view.
func (h *Hub) Run(ctx context.Context) {
	interval := h.cfg.IdleTimeout / 2
	slog.Info("dashboard hub started",
		"refresh_interval", h.cfg.RefreshInterval,
		"idle_timeout", h.cfg.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			slog.Info("dashboard hub stopped")
			return
		case <-ticker.C:
			h.expire(time.Now())
		}
	}
}

// expire stops views idle since before now minus IdleTimeout.
func (h *Hub) expire(now time.Time) int {
	cutoff := now.Add(-h.cfg.IdleTimeout)

	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for key, v := range h.views {
		if v.idleSince().Before(cutoff) {
			v.stop()
			delete(h.views, key)
			n++
		}
	}
	if n > 0 {
		slog.Debug("expired idle dashboard views", "count", n, "remaining", len(h.views))
	}
	return n
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, v := range h.views {
		v.stop()
		delete(h.views, key)
	}
	h.closed = true
}
