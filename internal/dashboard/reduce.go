package dashboard

import (
	"slices"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// Result is the outcome of a remote call.
type Result struct {
	Err error
}

// OK reports success.
func (r Result) OK() bool {
	return r.Err == nil
}

// ActionKind selects what Reduce does.
type ActionKind int

const (
	// ActionSetStatus sets Status on the record ID.
	ActionSetStatus ActionKind = iota + 1
	// ActionSetTags replaces the tags of the record ID.
	ActionSetTags
	// ActionRemove deletes the record ID.
	ActionRemove
	// ActionRestore puts Record back at Index, replacing any record with
	// the same ID.
	ActionRestore
)

// Action is a local change to the cached submissions.
type Action struct {
	Kind   ActionKind
	ID     string
	Status leads.Status
	Tags   leads.Refs
	Record leads.Submission
	Index  int
}

// Reduce returns the state after applying a. It never modifies s.
// Actions naming an unknown record leave the state unchanged.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionSetStatus, ActionSetTags:
		_, i, ok := s.Submission(a.ID)
		if !ok {
			return s
		}
		subs := slices.Clone(s.Submissions)
		if a.Kind == ActionSetStatus {
			subs[i].Status = a.Status
		} else {
			subs[i].Tags = slices.Clone(a.Tags)
		}
		s.Submissions = subs
		return s

	case ActionRemove:
		_, i, ok := s.Submission(a.ID)
		if !ok {
			return s
		}
		s.Submissions = slices.Delete(slices.Clone(s.Submissions), i, i+1)
		return s

	case ActionRestore:
		subs := slices.Clone(s.Submissions)
		if _, i, ok := s.Submission(a.Record.ID); ok {
			subs[i] = a.Record
			s.Submissions = subs
			return s
		}
		idx := min(max(a.Index, 0), len(subs))
		s.Submissions = slices.Insert(subs, idx, a.Record)
		return s
	}
	return s
}

// Revert returns the action that undoes a, given the state it was applied
// to. The second result is false when a touched no record.
func Revert(before State, a Action) (Action, bool) {
	rec, i, ok := before.Submission(a.ID)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: ActionRestore, Record: rec, Index: i}, true
}

// Settle applies the revert of a when res failed; successful results leave
// the state as is.
func Settle(current, before State, a Action, res Result) State {
	if res.OK() {
		return current
	}
	undo, ok := Revert(before, a)
	if !ok {
		return current
	}
	return Reduce(current, undo)
}
