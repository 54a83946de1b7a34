// Package session holds per-browser dashboard state: the signed login
// credential and the persisted filter preferences.
package session

import (
	"strings"
	"time"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// Preferences are the dashboard filter settings remembered per browser.
//
// DateSaved distinguishes "never chosen" (the filter defaults to today) from
// "explicitly cleared" (no date filter).
type Preferences struct {
	Search         string `json:"filterSearch"`
	Date           string `json:"filterDate"`
	DateSaved      bool   `json:"filterDateSaved"`
	DuplicatesOnly bool   `json:"filterDuplicates"`
	Status         string `json:"filterStatus"`
	Tag            string `json:"filterFintech"`
}

// Normalize trims the free-text fields and replaces empty selectors with
// the "all" sentinel.
func (p Preferences) Normalize() Preferences {
	p.Search = strings.TrimSpace(p.Search)
	p.Date = strings.TrimSpace(p.Date)
	if p.Date != "" {
		if _, err := time.Parse(leads.DateLayout, p.Date); err != nil {
			p.Date = ""
		}
	}
	if p.Status == "" {
		p.Status = leads.FilterAll
	}
	if p.Tag == "" {
		p.Tag = leads.FilterAll
	}
	return p
}

// EffectiveDate returns the date filter to apply: today in loc when the
// preference was never saved, otherwise the saved value (possibly empty).
func (p Preferences) EffectiveDate(now time.Time, loc *time.Location) string {
	if !p.DateSaved {
		if loc == nil {
			loc = time.UTC
		}
		return now.In(loc).Format(leads.DateLayout)
	}
	return p.Date
}

// Filter converts the preferences into a filter for leads.Apply.
func (p Preferences) Filter(now time.Time, loc *time.Location) leads.Filter {
	p = p.Normalize()
	return leads.Filter{
		Query:          p.Search,
		Date:           p.EffectiveDate(now, loc),
		Status:         p.Status,
		Tag:            p.Tag,
		DuplicatesOnly: p.DuplicatesOnly,
		Location:       loc,
	}
}

// WithDate records an explicit date choice. An empty date clears the filter.
func (p Preferences) WithDate(date string) Preferences {
	p.Date = date
	p.DateSaved = true
	return p.Normalize()
}

// Today sets the date filter to the current day in loc.
func (p Preferences) Today(now time.Time, loc *time.Location) Preferences {
	if loc == nil {
		loc = time.UTC
	}
	return p.WithDate(now.In(loc).Format(leads.DateLayout))
}

// Cleared returns neutral preferences that show every record.
func Cleared() Preferences {
	return Preferences{DateSaved: true}.Normalize()
}
