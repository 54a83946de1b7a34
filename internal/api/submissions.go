package api

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// SubmissionUpdate is the body of PUT /formulario/{id}. Tag IDs are always
// sent so that removing the last tag clears the list remotely.
type SubmissionUpdate struct {
	leads.SubmissionInput
	TagIDs []string `json:"fintechIds"`
}

// NewSubmissionUpdate builds an update body with a non-nil tag list.
func NewSubmissionUpdate(in leads.SubmissionInput) SubmissionUpdate {
	ids := in.TagIDs
	if ids == nil {
		ids = []string{}
	}
	return SubmissionUpdate{SubmissionInput: in, TagIDs: ids}
}

// Submit posts a public form entry. No credential is sent.
func (c *Client) Submit(ctx context.Context, in leads.SubmissionInput) error {
	anon := *c
	anon.token = ""
	return anon.do(ctx, http.MethodPost, "/formulario", in, nil)
}

// ListSubmissions returns every submission.
func (c *Client) ListSubmissions(ctx context.Context) ([]leads.Submission, error) {
	var out []leads.Submission
	if err := c.do(ctx, http.MethodGet, "/formulario", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubmission creates a record on behalf of an admin. CreatedAt, when
// set, back-dates the record.
func (c *Client) CreateSubmission(ctx context.Context, in leads.SubmissionInput) error {
	if in.TagIDs == nil {
		in.TagIDs = []string{}
	}
	return c.do(ctx, http.MethodPost, "/formulario/admin-create", in, nil)
}

// UpdateSubmission replaces the editable fields of a record.
func (c *Client) UpdateSubmission(ctx context.Context, id string, in leads.SubmissionInput) error {
	return c.do(ctx, http.MethodPut, "/formulario/"+pathID(id), NewSubmissionUpdate(in), nil)
}

// SetStatus patches the review status of a record.
func (c *Client) SetStatus(ctx context.Context, id string, status leads.Status) error {
	body := struct {
		Status leads.Status `json:"status"`
	}{status}
	return c.do(ctx, http.MethodPatch, "/formulario/"+pathID(id)+"/status", body, nil)
}

// DeleteSubmission removes a record.
func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/formulario/"+pathID(id), nil, nil)
}
