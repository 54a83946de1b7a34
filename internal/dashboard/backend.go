// Package dashboard is the view-model behind the admin dashboard: a cached
// copy of the remote records per logged-in browser, kept fresh by a
// background refresher, plus the mutations the dashboard offers.
//
// Mutations that change a visible record are applied optimistically through
// Reduce and reverted when the remote call fails.
package dashboard

import (
	"context"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
)

// Backend is the subset of the remote API the dashboard uses.
// *api.Client implements it.
type Backend interface {
	ListSubmissions(ctx context.Context) ([]leads.Submission, error)
	CreateSubmission(ctx context.Context, in leads.SubmissionInput) error
	UpdateSubmission(ctx context.Context, id string, in leads.SubmissionInput) error
	SetStatus(ctx context.Context, id string, status leads.Status) error
	DeleteSubmission(ctx context.Context, id string) error

	ListAdmins(ctx context.Context) ([]leads.Admin, error)
	CreateAdmin(ctx context.Context, creds api.Credentials) error
	UpdateAdmin(ctx context.Context, id string, creds api.Credentials) error
	DeleteAdmin(ctx context.Context, id string) error

	ListAffiliates(ctx context.Context) ([]leads.Affiliate, error)
	CreateAffiliate(ctx context.Context, name string) (leads.Affiliate, error)
	DeleteAffiliate(ctx context.Context, id string) error
	AffiliateSubmissions(ctx context.Context, id string) ([]leads.Submission, error)

	ListTags(ctx context.Context) ([]leads.Tag, error)
	CreateTag(ctx context.Context, in api.TagInput) error
	UpdateTag(ctx context.Context, id string, in api.TagInput) error
	DeleteTag(ctx context.Context, id string) error

	AdminConfig(ctx context.Context) (leads.FormConfig, error)
	UpdateConfig(ctx context.Context, cfg leads.FormConfig) error
}

var _ Backend = (*api.Client)(nil)

// Creator posts one submission. Used by the bulk importer.
type Creator interface {
	CreateSubmission(ctx context.Context, in leads.SubmissionInput) error
}
