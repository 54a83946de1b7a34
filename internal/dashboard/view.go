package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrProtectedAdmin is returned when deleting the built-in account.
	ErrProtectedAdmin = errors.New("dashboard: protected admin cannot be deleted")

	// ErrUnknownRecord is returned when an id is not in the cache.
	ErrUnknownRecord = errors.New("dashboard: unknown record")
)

// View is the dashboard of one logged-in browser.
type View struct {
	backend   Backend
	token     string
	cache     Cache
	banners   *Banners
	importer  *Importer
	imports   *ImportSlots
	protected string

	kick     chan struct{}
	cancel   context.CancelFunc
	lastSeen atomic.Int64

	mu      sync.Mutex
	lastErr error
}

func newView(b Backend, token string, cfg Config, history History, imports *ImportSlots) *View {
	v := &View{
		backend:   b,
		token:     token,
		banners:   NewBanners(cfg.BannerTTL),
		importer:  NewImporter(b, WithHistory(history)),
		imports:   imports,
		protected: cfg.ProtectedAdminEmail,
		kick:      make(chan struct{}, 1),
	}
	v.touch()
	return v
}

func (v *View) touch() {
	v.lastSeen.Store(time.Now().UnixNano())
}

func (v *View) idleSince() time.Time {
	return time.Unix(0, v.lastSeen.Load())
}

// Banners returns the view's transient messages.
func (v *View) Banners() *Banners {
	return v.banners
}

// Snapshot returns the current state.
func (v *View) Snapshot() State {
	s, _ := v.cache.Snapshot()
	return s
}

// Err returns the error of the last background refresh, if any.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *View) setErr(err error) {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
}

// Load fetches records, affiliates and tags in parallel; full also fetches
// admins and the form configuration. The result is dropped if the cache
// changed while the fetch was in flight.
func (v *View) Load(ctx context.Context, full bool) error {
	_, gen := v.cache.Snapshot()

	var (
		subs    []leads.Submission
		affs    []leads.Affiliate
		tags    []leads.Tag
		admins  []leads.Admin
		formCfg leads.FormConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subs, err = v.backend.ListSubmissions(gctx)
		return wrap("list submissions", err)
	})
	g.Go(func() (err error) {
		affs, err = v.backend.ListAffiliates(gctx)
		return wrap("list affiliates", err)
	})
	g.Go(func() (err error) {
		tags, err = v.backend.ListTags(gctx)
		return wrap("list tags", err)
	})
	if full {
		g.Go(func() (err error) {
			admins, err = v.backend.ListAdmins(gctx)
			return wrap("list admins", err)
		})
		g.Go(func() (err error) {
			formCfg, err = v.backend.AdminConfig(gctx)
			return wrap("load form config", err)
		})
	}
	if err := g.Wait(); err != nil {
		v.setErr(err)
		return err
	}
	v.setErr(nil)

	applied := v.cache.Replace(gen, func(s *State) {
		s.Submissions = subs
		s.Affiliates = affs
		s.Tags = tags
		if full {
			s.Admins = admins
			s.Config = formCfg.WithDefaults()
			s.FullLoaded = true
		}
		s.LoadedAt = time.Now()
		s.Loaded = true
	})
	if !applied {
		logging.FromContext(ctx).Debug("dropped stale dashboard fetch")
	}
	return nil
}

// EnsureLoaded performs a full load unless one already succeeded. A partial
// refresh does not count.
func (v *View) EnsureLoaded(ctx context.Context) error {
	if v.Snapshot().FullLoaded {
		return nil
	}
	return v.Load(ctx, true)
}

// current returns the state, loading it first when the cache is empty.
func (v *View) current(ctx context.Context) (State, error) {
	if err := v.EnsureLoaded(ctx); err != nil {
		return State{}, err
	}
	return v.Snapshot(), nil
}

// RequestRefresh asks the refresher for an immediate full reload.
func (v *View) RequestRefresh() {
	select {
	case v.kick <- struct{}{}:
	default:
	}
}

// run is the refresher loop. It stops when ctx is cancelled.
func (v *View) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.refresh(ctx, false)
		case <-v.kick:
			v.refresh(ctx, true)
		}
	}
}

func (v *View) refresh(ctx context.Context, full bool) {
	// Ticks stay full until admins and config have been fetched once.
	full = full || !v.Snapshot().FullLoaded
	if err := v.Load(ctx, full); err != nil && ctx.Err() == nil {
		logging.FromContext(ctx).Warn("dashboard refresh failed", "error", err)
	}
}

// stop ends the refresher and drops in-flight results.
func (v *View) stop() {
	if v.cancel != nil {
		v.cancel()
	}
	v.cache.Invalidate()
}

// optimistic applies a locally, calls remote and reverts a on failure.
func (v *View) optimistic(ctx context.Context, a Action, remote func(context.Context) error) error {
	if err := v.EnsureLoaded(ctx); err != nil {
		return err
	}
	before, _ := v.cache.Snapshot()
	if _, _, ok := before.Submission(a.ID); !ok {
		return ErrUnknownRecord
	}
	v.cache.Dispatch(a)

	err := remote(ctx)
	if err != nil {
		if undo, ok := Revert(before, a); ok {
			v.cache.Dispatch(undo)
		}
		v.RequestRefresh()
	}
	return err
}

// SetStatus changes a record's status.
func (v *View) SetStatus(ctx context.Context, id string, status leads.Status) error {
	if !status.Valid() {
		return &leads.ValidationError{Field: "status", Message: "Status inválido"}
	}
	return v.optimistic(ctx, Action{Kind: ActionSetStatus, ID: id, Status: status}, func(ctx context.Context) error {
		return v.backend.SetStatus(ctx, id, status)
	})
}

// ToggleTag adds or removes a tag on a record. It reports whether the tag
// is now attached.
func (v *View) ToggleTag(ctx context.Context, id, tagID string) (bool, error) {
	state, err := v.current(ctx)
	if err != nil {
		return false, err
	}
	rec, _, ok := state.Submission(id)
	if !ok {
		return false, ErrUnknownRecord
	}
	added := !rec.Tags.Contains(tagID)
	tags := rec.Tags.Toggle(tagID)

	in := leads.FromSubmission(rec)
	in.TagIDs = tags.IDs()

	err = v.optimistic(ctx, Action{Kind: ActionSetTags, ID: id, Tags: tags}, func(ctx context.Context) error {
		return v.backend.UpdateSubmission(ctx, id, in)
	})
	return added, err
}

// DeleteSubmission removes a record.
func (v *View) DeleteSubmission(ctx context.Context, id string) error {
	return v.optimistic(ctx, Action{Kind: ActionRemove, ID: id}, func(ctx context.Context) error {
		return v.backend.DeleteSubmission(ctx, id)
	})
}

// SaveSubmission creates a record when id is empty, otherwise updates it.
func (v *View) SaveSubmission(ctx context.Context, id string, in leads.SubmissionInput) error {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	if in.TagIDs == nil {
		in.TagIDs = []string{}
	}

	var err error
	if id == "" {
		err = v.backend.CreateSubmission(ctx, in)
	} else {
		err = v.backend.UpdateSubmission(ctx, id, in)
	}
	if err != nil {
		return err
	}
	return v.reload(ctx, false)
}

// Import runs a bulk import and reloads the records afterwards. The text is
// validated before waiting for an import slot.
func (v *View) Import(ctx context.Context, text, adminEmail string) (ImportReport, error) {
	candidates, err := Parse(text)
	if err != nil {
		return ImportReport{}, err
	}
	if v.imports != nil {
		if err := v.imports.Acquire(ctx); err != nil {
			return ImportReport{}, err
		}
		defer v.imports.Release()
	}

	report := v.importer.Post(ctx, candidates, adminEmail)
	if err := v.reload(ctx, false); err != nil {
		logging.FromContext(ctx).Warn("reload after import failed", "error", err)
	}
	return report, nil
}

// CreateAdmin adds an account.
func (v *View) CreateAdmin(ctx context.Context, creds api.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return &leads.ValidationError{Message: "Preencha todos os campos"}
	}
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.CreateAdmin(ctx, creds) })
}

// UpdateAdmin changes an account. An empty password keeps the current one.
func (v *View) UpdateAdmin(ctx context.Context, id string, creds api.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return &leads.ValidationError{Field: "email", Message: "O e-mail é obrigatório"}
	}
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.UpdateAdmin(ctx, id, creds) })
}

// DeleteAdmin removes an account. The protected account is refused
// without a network call.
func (v *View) DeleteAdmin(ctx context.Context, id string) error {
	state, err := v.current(ctx)
	if err != nil {
		return err
	}
	admin, ok := state.Admin(id)
	if !ok {
		return ErrUnknownRecord
	}
	if strings.EqualFold(admin.Email, v.protected) {
		return ErrProtectedAdmin
	}
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.DeleteAdmin(ctx, id) })
}

// CreateAffiliate adds an affiliate and returns it with its referral code.
func (v *View) CreateAffiliate(ctx context.Context, name string) (leads.Affiliate, error) {
	name = strings.TrimSpace(name)
	if err := leads.RequireText("nome", name, "Digite o nome do afiliado"); err != nil {
		return leads.Affiliate{}, err
	}
	var created leads.Affiliate
	err := v.mutate(ctx, func(ctx context.Context) (err error) {
		created, err = v.backend.CreateAffiliate(ctx, name)
		return err
	})
	return created, err
}

// DeleteAffiliate removes an affiliate. Its submissions keep a dangling
// reference that renders as "N/A".
func (v *View) DeleteAffiliate(ctx context.Context, id string) error {
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.DeleteAffiliate(ctx, id) })
}

// AffiliateSubmissions lists the records referred by an affiliate.
func (v *View) AffiliateSubmissions(ctx context.Context, id string) (leads.Affiliate, []leads.Submission, error) {
	var aff leads.Affiliate
	state, err := v.current(ctx)
	if err != nil {
		return aff, nil, err
	}
	for _, a := range state.Affiliates {
		if a.ID == id {
			aff = a
			break
		}
	}
	if aff.ID == "" {
		return aff, nil, ErrUnknownRecord
	}
	subs, err := v.backend.AffiliateSubmissions(ctx, id)
	return aff, subs, err
}

// SaveTag creates a tag when id is empty, otherwise updates name and color.
func (v *View) SaveTag(ctx context.Context, id, name, color string) error {
	name = strings.TrimSpace(name)
	if err := leads.RequireText("nome", name, "Digite o nome da fintech"); err != nil {
		return err
	}
	in := api.TagInput{Name: name, Color: leads.Tag{Color: color}.DisplayColor()}
	if id == "" {
		return v.mutate(ctx, func(ctx context.Context) error { return v.backend.CreateTag(ctx, in) })
	}
	if existing, ok := v.Snapshot().Tag(id); ok {
		active := existing.Active
		in.Active = &active
	}
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.UpdateTag(ctx, id, in) })
}

// ToggleTagActive flips a tag's active flag and reports the new value.
func (v *View) ToggleTagActive(ctx context.Context, id string) (bool, error) {
	state, err := v.current(ctx)
	if err != nil {
		return false, err
	}
	tag, ok := state.Tag(id)
	if !ok {
		return false, ErrUnknownRecord
	}
	tag.Active = !tag.Active
	err = v.mutate(ctx, func(ctx context.Context) error {
		return v.backend.UpdateTag(ctx, id, api.TagInputFrom(tag))
	})
	return tag.Active, err
}

// DeleteTag removes a tag. Records keep their other tags.
func (v *View) DeleteTag(ctx context.Context, id string) error {
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.DeleteTag(ctx, id) })
}

// UpdateConfig replaces the public form copy. All fields are required.
func (v *View) UpdateConfig(ctx context.Context, cfg leads.FormConfig) error {
	cfg.Title = strings.TrimSpace(cfg.Title)
	cfg.Subtitle = strings.TrimSpace(cfg.Subtitle)
	cfg.Description = strings.TrimSpace(cfg.Description)
	if cfg.Title == "" || cfg.Subtitle == "" || cfg.Description == "" {
		return &leads.ValidationError{Message: "Preencha todos os campos"}
	}
	return v.mutate(ctx, func(ctx context.Context) error { return v.backend.UpdateConfig(ctx, cfg) })
}

// mutate runs a remote change and then reloads everything.
func (v *View) mutate(ctx context.Context, remote func(context.Context) error) error {
	if err := remote(ctx); err != nil {
		return err
	}
	if err := v.reload(ctx, true); err != nil {
		logging.FromContext(ctx).Warn("reload after change failed", "error", err)
	}
	return nil
}

// reload discards fetches that started before a remote change, then loads.
func (v *View) reload(ctx context.Context, full bool) error {
	v.cache.Invalidate()
	return v.Load(ctx, full)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
