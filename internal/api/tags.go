package api

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// TagInput is the body for creating or updating a partner tag.
type TagInput struct {
	Name   string `json:"nome"`
	Color  string `json:"cor"`
	Active *bool  `json:"ativo,omitempty"`
}

// TagInputFrom copies a tag into an update body, including its active flag.
func TagInputFrom(t leads.Tag) TagInput {
	active := t.Active
	return TagInput{Name: t.Name, Color: t.DisplayColor(), Active: &active}
}

// ListTags returns every partner tag, active or not.
func (c *Client) ListTags(ctx context.Context) ([]leads.Tag, error) {
	var out []leads.Tag
	if err := c.do(ctx, http.MethodGet, "/fintech/admin", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag creates a partner tag.
func (c *Client) CreateTag(ctx context.Context, in TagInput) error {
	return c.do(ctx, http.MethodPost, "/fintech", in, nil)
}

// UpdateTag replaces a tag's name, color and, when set, active flag.
func (c *Client) UpdateTag(ctx context.Context, id string, in TagInput) error {
	return c.do(ctx, http.MethodPut, "/fintech/"+pathID(id), in, nil)
}

// DeleteTag removes a tag. Submissions referencing it are kept.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/fintech/"+pathID(id), nil, nil)
}
