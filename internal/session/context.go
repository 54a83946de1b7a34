package session

import (
	"context"
	"fmt"
)

// Context is the per-request application context: who is logged in and
// which filters the browser has chosen. Handlers Load it at request start,
// Save it after a preference change and Clear it on logout.
type Context struct {
	BrowserID   string
	Credential  Credential
	Preferences Preferences

	store Store
}

// Load reads the stored preferences for browserID.
func Load(ctx context.Context, store Store, browserID string, cred Credential) (*Context, error) {
	prefs, err := store.Load(ctx, browserID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return &Context{
		BrowserID:   browserID,
		Credential:  cred,
		Preferences: prefs,
		store:       store,
	}, nil
}

// LoggedIn reports whether the context carries an API token.
func (c *Context) LoggedIn() bool {
	return c.Credential.Token != ""
}

// Update applies fn to the preferences and persists the result.
func (c *Context) Update(ctx context.Context, fn func(Preferences) Preferences) error {
	c.Preferences = fn(c.Preferences)
	return c.Save(ctx)
}

// Save persists the current preferences.
func (c *Context) Save(ctx context.Context) error {
	if err := c.store.Save(ctx, c.BrowserID, c.Preferences); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Clear drops the credential. Filter preferences survive logout, as they
// belong to the browser rather than the login.
func (c *Context) Clear() {
	c.Credential = Credential{}
}

// Forget deletes the stored preferences for this browser.
func (c *Context) Forget(ctx context.Context) error {
	c.Preferences = Preferences{}
	if err := c.store.Delete(ctx, c.BrowserID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

type ctxKey struct{}

// WithContext stores sc in ctx.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext returns the session context stored by WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	sc, ok := ctx.Value(ctxKey{}).(*Context)
	return sc, ok
}
