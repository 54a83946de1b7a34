package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to an affiliate or tag.
//
// The API returns links either as a bare id or as an expanded object. Both
// forms decode into a Ref once, here; Expanded records which one arrived so
// that callers can prefer the embedded name and color over a directory
// lookup.
type Ref struct {
	ID       string
	Name     string
	Color    string
	Expanded bool
}

type expandedRef struct {
	ID    string `json:"_id"`
	Name  string `json:"nome"`
	Color string `json:"cor"`
}

// UnmarshalJSON accepts a string id, a number, null, or an object with _id.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode ref id: %w", err)
		}
		*r = Ref{ID: id}
	case '{':
		var obj expandedRef
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode expanded ref: %w", err)
		}
		*r = Ref{ID: obj.ID, Name: obj.Name, Color: obj.Color, Expanded: true}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode ref: unsupported value %s", data)
		}
		*r = Ref{ID: n.String()}
	}
	return nil
}

// MarshalJSON writes the reference as its id, which is what the API accepts.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Refs is an ordered set of references.
type Refs []Ref

// UnmarshalJSON drops null and empty entries.
func (rs *Refs) UnmarshalJSON(data []byte) error {
	var raw []Ref
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Refs, 0, len(raw))
	for _, r := range raw {
		if r.ID != "" {
			out = append(out, r)
		}
	}
	*rs = out
	return nil
}

// IDs returns the referenced ids in order.
func (rs Refs) IDs() []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

// Contains reports whether id is referenced.
func (rs Refs) Contains(id string) bool {
	for _, r := range rs {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Toggle returns a copy with id removed when present, or appended when not.
func (rs Refs) Toggle(id string) Refs {
	out := make(Refs, 0, len(rs)+1)
	found := false
	for _, r := range rs {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, Ref{ID: id})
	}
	return out
}

// RefsFromIDs builds unexpanded references.
func RefsFromIDs(ids []string) Refs {
	out := make(Refs, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, Ref{ID: id})
		}
	}
	return out
}

// Directory resolves references against the current affiliate and tag lists.
type Directory struct {
	affiliates map[string]Affiliate
	tags       map[string]Tag
}

// NewDirectory indexes affiliates and tags by id.
func NewDirectory(affiliates []Affiliate, tags []Tag) Directory {
	d := Directory{
		affiliates: make(map[string]Affiliate, len(affiliates)),
		tags:       make(map[string]Tag, len(tags)),
	}
	for _, a := range affiliates {
		d.affiliates[a.ID] = a
	}
	for _, t := range tags {
		d.tags[t.ID] = t
	}
	return d
}

// AffiliateName returns the affiliate's display name, or "N/A" when the
// reference is absent or dangling.
func (d Directory) AffiliateName(ref *Ref) string {
	if ref == nil || ref.ID == "" {
		return "N/A"
	}
	if a, ok := d.affiliates[ref.ID]; ok {
		return a.Name
	}
	if ref.Expanded && ref.Name != "" {
		return ref.Name
	}
	return "N/A"
}

// Tag resolves a tag reference. Expanded references carry their own name.
func (d Directory) Tag(ref Ref) (Tag, bool) {
	if ref.Expanded && ref.Name != "" {
		return Tag{ID: ref.ID, Name: ref.Name, Color: ref.Color, Active: true}, true
	}
	t, ok := d.tags[ref.ID]
	return t, ok
}

// Tags resolves every reference, skipping dangling ones.
func (d Directory) Tags(refs Refs) []Tag {
	var out []Tag
	for _, r := range refs {
		if t, ok := d.Tag(r); ok {
			out = append(out, t)
		}
	}
	return out
}
