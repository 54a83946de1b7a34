package leads

import (
	"strings"
	"time"
)

// Filter sentinels shared with the dashboard controls.
const (
	FilterAll   = "todos"
	FilterNoTag = "sem-fintech"
)

// DateLayout is the calendar-date format used by the date filter.
const DateLayout = "2006-01-02"

// Filter narrows a record set. Zero values and FilterAll are no-ops.
type Filter struct {
	Query          string
	Date           string // YYYY-MM-DD; empty disables the date predicate
	Status         string // a Status value, FilterAll, or empty
	Tag            string // a tag id, FilterNoTag, FilterAll, or empty
	DuplicatesOnly bool
	// Location is the zone whose calendar day Date is compared against.
	// Nil means UTC.
	Location *time.Location
}

// IsNeutral reports whether every predicate is disabled.
func (f Filter) IsNeutral() bool {
	return f.Query == "" && f.Date == "" &&
		(f.Status == "" || f.Status == FilterAll) &&
		(f.Tag == "" || f.Tag == FilterAll) &&
		!f.DuplicatesOnly
}

// Apply returns the records matching every active predicate, in input order.
// idx may be nil when DuplicatesOnly is false; otherwise it is built on demand.
func Apply(records []Submission, f Filter, idx *DuplicateIndex) []Submission {
	if f.DuplicatesOnly && idx == nil {
		idx = NewDuplicateIndex(records)
	}

	out := make([]Submission, 0, len(records))
	for _, r := range records {
		if f.Matches(r, idx) {
			out = append(out, r)
		}
	}
	return out
}

// Matches evaluates the conjunction of f's predicates for one record.
func (f Filter) Matches(r Submission, idx *DuplicateIndex) bool {
	return f.matchesQuery(r) &&
		f.matchesDate(r) &&
		f.matchesStatus(r) &&
		f.matchesTag(r) &&
		(!f.DuplicatesOnly || (idx != nil && idx.HasDuplicates(r)))
}

func (f Filter) matchesQuery(r Submission) bool {
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Email), q) ||
		strings.Contains(r.CPF, f.Query) ||
		strings.Contains(r.Phone, f.Query)
}

func (f Filter) matchesDate(r Submission) bool {
	if f.Date == "" {
		return true
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return r.CreatedAt.In(loc).Format(DateLayout) == f.Date
}

func (f Filter) matchesStatus(r Submission) bool {
	if f.Status == "" || f.Status == FilterAll {
		return true
	}
	return string(r.Status) == f.Status
}

func (f Filter) matchesTag(r Submission) bool {
	switch f.Tag {
	case "", FilterAll:
		return true
	case FilterNoTag:
		return len(r.Tags) == 0
	default:
		return r.Tags.Contains(f.Tag)
	}
}

// StatusCounts tallies records per status. Unknown statuses count as pending.
func StatusCounts(records []Submission) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, r := range records {
		s := r.Status
		if !s.Valid() {
			s = StatusPending
		}
		counts[s]++
	}
	return counts
}
