package web

import (
	"context"
	"sync"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
)

// fakeGateway answers the anonymous API calls.
type fakeGateway struct {
	mu        sync.Mutex
	cfg       leads.FormConfig
	loginErr  error
	submitErr error
	submitted []leads.SubmissionInput
}

func (g *fakeGateway) Login(_ context.Context, creds api.Credentials) (api.LoginResult, error) {
	if g.loginErr != nil {
		return api.LoginResult{}, g.loginErr
	}
	var res api.LoginResult
	res.Token = "token-" + creds.Email
	res.Admin.Email = creds.Email
	return res, nil
}

func (g *fakeGateway) Submit(_ context.Context, in leads.SubmissionInput) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitErr != nil {
		return g.submitErr
	}
	g.submitted = append(g.submitted, in)
	return nil
}

func (g *fakeGateway) PublicConfig(context.Context) (leads.FormConfig, error) {
	return g.cfg, nil
}

// fakeBackend is an in-memory dashboard.Backend. failNext fails the next
// mutation.
type fakeBackend struct {
	mu       sync.Mutex
	subs     []leads.Submission
	tags     []leads.Tag
	admins   []leads.Admin
	affs     []leads.Affiliate
	failNext error
	statuses map[string]leads.Status
	created  []leads.SubmissionInput
}

var _ dashboard.Backend = (*fakeBackend)(nil)

func newFakeBackend(subs ...leads.Submission) *fakeBackend {
	return &fakeBackend{subs: subs, statuses: make(map[string]leads.Status)}
}

func (f *fakeBackend) mutation() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeBackend) fail(err error) {
	f.mu.Lock()
	f.failNext = err
	f.mu.Unlock()
}

func (f *fakeBackend) ListSubmissions(context.Context) ([]leads.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Submission(nil), f.subs...), nil
}

func (f *fakeBackend) CreateSubmission(_ context.Context, in leads.SubmissionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeBackend) UpdateSubmission(context.Context, string, leads.SubmissionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) SetStatus(_ context.Context, id string, s leads.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.statuses[id] = s
	return nil
}

func (f *fakeBackend) DeleteSubmission(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) ListAdmins(context.Context) ([]leads.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Admin(nil), f.admins...), nil
}

func (f *fakeBackend) CreateAdmin(context.Context, api.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) UpdateAdmin(context.Context, string, api.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) DeleteAdmin(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) ListAffiliates(context.Context) ([]leads.Affiliate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Affiliate(nil), f.affs...), nil
}

func (f *fakeBackend) CreateAffiliate(_ context.Context, name string) (leads.Affiliate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return leads.Affiliate{}, err
	}
	a := leads.Affiliate{ID: "aff1", Name: name, Code: "ABC123"}
	f.affs = append(f.affs, a)
	return a, nil
}

func (f *fakeBackend) DeleteAffiliate(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) AffiliateSubmissions(context.Context, string) ([]leads.Submission, error) {
	return nil, nil
}

func (f *fakeBackend) ListTags(context.Context) ([]leads.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Tag(nil), f.tags...), nil
}

func (f *fakeBackend) CreateTag(context.Context, api.TagInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) UpdateTag(context.Context, string, api.TagInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) DeleteTag(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) AdminConfig(context.Context) (leads.FormConfig, error) {
	return leads.FormConfig{}, nil
}

func (f *fakeBackend) UpdateConfig(context.Context, leads.FormConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}
