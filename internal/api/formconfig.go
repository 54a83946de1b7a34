package api

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// PublicConfig returns the public form copy. No credential is sent.
func (c *Client) PublicConfig(ctx context.Context) (leads.FormConfig, error) {
	anon := *c
	anon.token = ""

	var out leads.FormConfig
	if err := anon.do(ctx, http.MethodGet, "/config", nil, &out); err != nil {
		return leads.FormConfig{}, err
	}
	return out, nil
}

// AdminConfig returns the stored form copy for editing.
func (c *Client) AdminConfig(ctx context.Context) (leads.FormConfig, error) {
	var out leads.FormConfig
	if err := c.do(ctx, http.MethodGet, "/config/admin", nil, &out); err != nil {
		return leads.FormConfig{}, err
	}
	return out, nil
}

// UpdateConfig replaces the form copy.
func (c *Client) UpdateConfig(ctx context.Context, cfg leads.FormConfig) error {
	return c.do(ctx, http.MethodPut, "/config", cfg, nil)
}
