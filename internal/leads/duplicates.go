package leads

import (
	"slices"
)

// Classification is a record's standing for one identifying field.
type Classification int

const (
	// Unique means no other record shares the value (or the value is empty).
	Unique Classification = iota
	// Canonical is the earliest-created record among those sharing a value.
	Canonical
	// Duplicate is any later record sharing a value with a canonical one.
	Duplicate
)

func (c Classification) String() string {
	switch c {
	case Canonical:
		return "canonical"
	case Duplicate:
		return "duplicate"
	default:
		return "unique"
	}
}

// earlier orders records by creation time, falling back to ID so that equal
// timestamps resolve the same way on every run.
func earlier(a, b Submission) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// ClassifyField computes rec's classification for field by scanning records
// directly. It is the reference rule that DuplicateIndex precomputes.
func ClassifyField(records []Submission, rec Submission, field Field) Classification {
	value := rec.Field(field)
	if value == "" {
		return Unique
	}

	var sharing []Submission
	for _, r := range records {
		if r.Field(field) == value {
			sharing = append(sharing, r)
		}
	}
	if len(sharing) <= 1 {
		return Unique
	}

	first := slices.MinFunc(sharing, earlier)
	if first.ID == rec.ID {
		return Canonical
	}
	return Duplicate
}

// DuplicateIndex groups records that share an identifying value.
// It is built once per record set; queries are map lookups.
type DuplicateIndex struct {
	// groups[field][value] holds every record with that value, oldest first.
	groups map[Field]map[string][]Submission
}

// NewDuplicateIndex indexes records by email, CPF and phone.
// Empty values are never indexed.
func NewDuplicateIndex(records []Submission) *DuplicateIndex {
	idx := &DuplicateIndex{groups: make(map[Field]map[string][]Submission, len(IdentityFields))}
	for _, f := range IdentityFields {
		byValue := make(map[string][]Submission)
		for _, r := range records {
			if v := r.Field(f); v != "" {
				byValue[v] = append(byValue[v], r)
			}
		}
		for v, group := range byValue {
			if len(group) < 2 {
				delete(byValue, v)
				continue
			}
			slices.SortStableFunc(group, earlier)
		}
		idx.groups[f] = byValue
	}
	return idx
}

// Classify returns rec's standing for field.
func (idx *DuplicateIndex) Classify(rec Submission, field Field) Classification {
	group := idx.group(rec, field)
	if group == nil {
		return Unique
	}
	if group[0].ID == rec.ID {
		return Canonical
	}
	return Duplicate
}

// IsCanonical reports whether rec is the oldest of several records sharing
// its value for field.
func (idx *DuplicateIndex) IsCanonical(rec Submission, field Field) bool {
	return idx.Classify(rec, field) == Canonical
}

// IsDuplicate reports whether an older record shares rec's value for field.
func (idx *DuplicateIndex) IsDuplicate(rec Submission, field Field) bool {
	return idx.Classify(rec, field) == Duplicate
}

// Canonical returns the oldest record holding value in field.
func (idx *DuplicateIndex) Canonical(field Field, value string) (Submission, bool) {
	group := idx.groups[field][value]
	if len(group) == 0 {
		return Submission{}, false
	}
	return group[0], true
}

// Count returns how many records share rec's value for field. Values held by
// a single record report 1; empty values report 0.
func (idx *DuplicateIndex) Count(rec Submission, field Field) int {
	if rec.Field(field) == "" {
		return 0
	}
	if group := idx.group(rec, field); group != nil {
		return len(group)
	}
	return 1
}

// DuplicateFields lists the fields on which rec shares a value with another
// record, in IdentityFields order.
func (idx *DuplicateIndex) DuplicateFields(rec Submission) []Field {
	var out []Field
	for _, f := range IdentityFields {
		if idx.group(rec, f) != nil {
			out = append(out, f)
		}
	}
	return out
}

// HasDuplicates reports whether rec shares any identifying value with
// another record. This drives the duplicates-only filter.
func (idx *DuplicateIndex) HasDuplicates(rec Submission) bool {
	for _, f := range IdentityFields {
		if idx.group(rec, f) != nil {
			return true
		}
	}
	return false
}

// SharedValues returns the number of distinct values shared by two or more
// records in field. It equals the number of canonical records for field.
func (idx *DuplicateIndex) SharedValues(field Field) int {
	return len(idx.groups[field])
}

func (idx *DuplicateIndex) group(rec Submission, field Field) []Submission {
	v := rec.Field(field)
	if v == "" {
		return nil
	}
	group := idx.groups[field][v]
	for _, r := range group {
		if r.ID == rec.ID {
			return group
		}
	}
	return nil
}
