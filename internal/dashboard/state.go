package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// State is one consistent copy of everything the dashboard shows.
type State struct {
	Submissions []leads.Submission
	Affiliates  []leads.Affiliate
	Tags        []leads.Tag
	Admins      []leads.Admin
	Config      leads.FormConfig
	LoadedAt    time.Time
	Loaded      bool
	// FullLoaded is set once admins and the form config have been fetched.
	FullLoaded  bool
}

// Clone returns a copy whose slices can be modified freely.
func (s State) Clone() State {
	s.Submissions = slices.Clone(s.Submissions)
	for i := range s.Submissions {
		s.Submissions[i].Tags = slices.Clone(s.Submissions[i].Tags)
	}
	s.Affiliates = slices.Clone(s.Affiliates)
	s.Tags = slices.Clone(s.Tags)
	s.Admins = slices.Clone(s.Admins)
	return s
}

// Directory resolves affiliate and tag references against this state.
func (s State) Directory() leads.Directory {
	return leads.NewDirectory(s.Affiliates, s.Tags)
}

// Submission returns the record with the given id.
func (s State) Submission(id string) (leads.Submission, int, bool) {
	for i, r := range s.Submissions {
		if r.ID == id {
			return r, i, true
		}
	}
	return leads.Submission{}, -1, false
}

// Tag returns the tag with the given id.
func (s State) Tag(id string) (leads.Tag, bool) {
	for _, t := range s.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return leads.Tag{}, false
}

// Admin returns the admin with the given id.
func (s State) Admin(id string) (leads.Admin, bool) {
	for _, a := range s.Admins {
		if a.ID == id {
			return a, true
		}
	}
	return leads.Admin{}, false
}

// Cache guards a State. Every write bumps a generation counter so that
// fetches started before a local change can be discarded.
type Cache struct {
	mu    sync.RWMutex
	state State
	gen   uint64
}

// Snapshot returns a copy of the state and its generation.
func (c *Cache) Snapshot() (State, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone(), c.gen
}

// Dispatch applies an action through Reduce and returns the new state.
func (c *Cache) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	c.gen++
	return c.state.Clone()
}

// Replace applies fn to the state if no write happened since generation
// gen was observed. It reports whether the update was applied.
func (c *Cache) Replace(gen uint64, fn func(*State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	next := c.state.Clone()
	fn(&next)
	c.state = next
	c.gen++
	return true
}

// Invalidate bumps the generation so that in-flight fetches are dropped.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}
