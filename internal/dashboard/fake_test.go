package dashboard

import (
	"context"
	"sync"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
)

// fakeBackend is an in-memory Backend. failNext makes the next mutation
// fail with the given error.
type fakeBackend struct {
	mu         sync.Mutex
	subs       []leads.Submission
	affs       []leads.Affiliate
	tags       []leads.Tag
	admins     []leads.Admin
	cfg        leads.FormConfig
	listErr    error
	adminsErr  error
	failNext   error
	created    []leads.SubmissionInput
	updated    map[string]leads.SubmissionInput
	statuses   map[string]leads.Status
	deleted    []string
	tagUpdates map[string]api.TagInput
	calls      int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		updated:    make(map[string]leads.SubmissionInput),
		statuses:   make(map[string]leads.Status),
		tagUpdates: make(map[string]api.TagInput),
	}
}

func (f *fakeBackend) mutation() error {
	f.calls++
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeBackend) ListSubmissions(context.Context) ([]leads.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Submission(nil), f.subs...), f.listErr
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

func (f *fakeBackend) UpdateSubmission(_ context.Context, id string, in leads.SubmissionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.updated[id] = in
	return nil
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

func (f *fakeBackend) DeleteSubmission(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListAdmins(context.Context) ([]leads.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]leads.Admin(nil), f.admins...), f.adminsErr
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

func (f *fakeBackend) DeleteAdmin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
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
	a := leads.Affiliate{ID: "new", Name: name, Code: "CODE1"}
	f.affs = append(f.affs, a)
	return a, nil
}

func (f *fakeBackend) DeleteAffiliate(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) AffiliateSubmissions(_ context.Context, id string) ([]leads.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leads.Submission
	for _, s := range f.subs {
		if s.Affiliate != nil && s.Affiliate.ID == id {
			out = append(out, s)
		}
	}
	return out, nil
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

func (f *fakeBackend) UpdateTag(_ context.Context, id string, in api.TagInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.tagUpdates[id] = in
	return nil
}

func (f *fakeBackend) DeleteTag(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutation()
}

func (f *fakeBackend) AdminConfig(context.Context) (leads.FormConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, nil
}

func (f *fakeBackend) UpdateConfig(_ context.Context, cfg leads.FormConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mutation(); err != nil {
		return err
	}
	f.cfg = cfg
	return nil
}
