package dashboard

import (
	"sync"
	"time"
)

// BannerKind is the banner style.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a transient status message.
type Banner struct {
	Kind     BannerKind
	Text     string
	LinkURL  string
	LinkText string
	Expires  time.Time
}

// Banners holds the active banners of one view. A new banner of a kind
// replaces the previous one of that kind.
type Banners struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[BannerKind]Banner
}

// NewBanners creates a banner set whose entries live for ttl.
func NewBanners(ttl time.Duration) *Banners {
	return &Banners{ttl: ttl, now: time.Now, items: make(map[BannerKind]Banner)}
}

// Success shows a success banner.
func (b *Banners) Success(text string) {
	b.Show(Banner{Kind: BannerSuccess, Text: text})
}

// Error shows an error banner.
func (b *Banners) Error(text string) {
	b.Show(Banner{Kind: BannerError, Text: text})
}

// Show adds a banner, stamping its expiry.
func (b *Banners) Show(banner Banner) {
	b.mu.Lock()
	defer b.mu.Unlock()
	banner.Expires = b.now().Add(b.ttl)
	b.items[banner.Kind] = banner
}

// Active returns the unexpired banners, success first.
func (b *Banners) Active() []Banner {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var out []Banner
	for _, kind := range []BannerKind{BannerSuccess, BannerError} {
		banner, ok := b.items[kind]
		if !ok {
			continue
		}
		if !now.Before(banner.Expires) {
			delete(b.items, kind)
			continue
		}
		out = append(out, banner)
	}
	return out
}
