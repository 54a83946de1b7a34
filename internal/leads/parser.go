package leads

import (
	"regexp"
	"strings"
	"time"
)

// Candidate is one record extracted from pasted import text.
type Candidate struct {
	Name     string
	Email    string
	CPF      string
	Phone    string // empty when the block had no usable phone
	Password string
	// CreatedAt is nil when the block had no parseable date; the server then
	// assigns the creation time.
	CreatedAt *time.Time
}

// Input converts the candidate into an admin-create request body.
func (c Candidate) Input() SubmissionInput {
	in := SubmissionInput{
		Name:     c.Name,
		Email:    c.Email,
		CPF:      c.CPF,
		Phone:    c.Phone,
		Password: c.Password,
	}
	if c.CreatedAt != nil {
		in.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return in
}

// importKey is a recognized label. Order matters: the first match wins.
type importKey int

const (
	keyNone importKey = iota
	keyName
	keyEmail
	keyCPF
	keyPhone
	keyPassword
	keyDate
)

var importLabels = []struct {
	key     importKey
	needles []string
}{
	{keyName, []string{"nome"}},
	{keyEmail, []string{"e-mail", "email"}},
	{keyCPF, []string{"cpf"}},
	{keyPhone, []string{"telefone"}},
	{keyPassword, []string{"senha"}},
	{keyDate, []string{"data"}},
}

func classifyKey(key string) importKey {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range importLabels {
		for _, n := range l.needles {
			if strings.Contains(key, n) {
				return l.key
			}
		}
	}
	return keyNone
}

// phonePlaceholder marks an intentionally missing phone in exported text.
const phonePlaceholder = "N/A"

var blockSeparator = regexp.MustCompile(`\n\s*\n`)

// ParseImport splits pasted text into candidate records.
//
// Blocks are separated by a blank line. Within a block, every line holding a
// colon is split at the first colon into a label and a value; the label is
// matched case-insensitively against nome, e-mail, cpf, telefone, senha and
// data. Blocks missing a name, email, CPF or password are skipped silently.
func ParseImport(text string) []Candidate {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var out []Candidate
	for _, block := range blockSeparator.Split(text, -1) {
		if c, ok := parseBlock(block); ok {
			out = append(out, c)
		}
	}
	return out
}

func parseBlock(block string) (Candidate, bool) {
	var c Candidate
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch classifyKey(key) {
		case keyName:
			c.Name = value
		case keyEmail:
			c.Email = value
		case keyCPF:
			c.CPF = Digits(value)
		case keyPhone:
			if value != phonePlaceholder && value != "" {
				c.Phone = Digits(value)
			}
		case keyPassword:
			c.Password = value
		case keyDate:
			if t, ok := ParseImportDate(value); ok {
				c.CreatedAt = &t
			}
		}
	}

	if c.Name == "" || c.Email == "" || c.CPF == "" || c.Password == "" {
		return Candidate{}, false
	}
	return c, true
}

// importDateLayouts is tried in order. Layouts without a zone parse as UTC.
var importDateLayouts = []string{
	"2006/1/2 3:04:05 PM -07:00",
	"2006/1/2 15:04:05 -07:00",
	"2006/1/2 3:04:05 PM",
	"2006/1/2 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2/1/2006, 15:04:05",
	"2/1/2006 15:04:05",
	"2006-01-02",
	"2006/1/2",
	"2/1/2006",
}

// gmtOffset matches trailing zones such as "GMT-3", "GMT+05:30" or "GMT-0300".
var gmtOffset = regexp.MustCompile(`\s*(?:GMT|UTC)\s*([+-])(\d{1,2}):?(\d{2})?$`)

// ParseImportDate parses the timestamp formats seen in exported lead text,
// for example "2025/10/09 5:41:04 PM GMT-3".
func ParseImportDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	value = gmtOffset.ReplaceAllStringFunc(value, func(m string) string {
		parts := gmtOffset.FindStringSubmatch(m)
		hours := parts[2]
		if len(hours) == 1 {
			hours = "0" + hours
		}
		minutes := parts[3]
		if minutes == "" {
			minutes = "00"
		}
		return " " + parts[1] + hours + ":" + minutes
	})

	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
