package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// ListAffiliates returns every affiliate with its submission count.
func (c *Client) ListAffiliates(ctx context.Context) ([]leads.Affiliate, error) {
	var out []leads.Affiliate
	if err := c.do(ctx, http.MethodGet, "/afiliado", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAffiliate creates an affiliate. The API assigns the referral code.
func (c *Client) CreateAffiliate(ctx context.Context, name string) (leads.Affiliate, error) {
	body := struct {
		Name string `json:"nome"`
	}{name}

	var out leads.Affiliate
	if err := c.do(ctx, http.MethodPost, "/afiliado", body, &out); err != nil {
		return leads.Affiliate{}, err
	}
	return out, nil
}

// DeleteAffiliate removes an affiliate. Its submissions are kept.
func (c *Client) DeleteAffiliate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/afiliado/"+pathID(id), nil, nil)
}

// AffiliateSubmissions lists the submissions referred by one affiliate.
// Both a bare array and an object wrapping "formularios" are accepted.
func (c *Client) AffiliateSubmissions(ctx context.Context, id string) ([]leads.Submission, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/afiliado/"+pathID(id)+"/formularios", nil, &raw); err != nil {
		return nil, err
	}

	var list []leads.Submission
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Submissions []leads.Submission `json:"formularios"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode affiliate submissions: %w", err)
	}
	return wrapped.Submissions, nil
}
