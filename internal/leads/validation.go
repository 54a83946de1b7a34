package leads

import (
	"errors"
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest credential the form accepts.
const MinPasswordLength = 6

// maxDigits caps CPF and phone input, matching the form's input masks.
const maxDigits = 11

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a presence or length problem found before any
// network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Digits strips every non-digit rune.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SubmissionInput is the body of a public or manual submission.
type SubmissionInput struct {
	Name          string   `json:"nome"`
	Email         string   `json:"email"`
	CPF           string   `json:"cpf"`
	Phone         string   `json:"telefone,omitempty"`
	Password      string   `json:"senha"`
	AffiliateCode string   `json:"codigoAfiliado,omitempty"`
	TagIDs        []string `json:"fintechIds,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

// Normalize trims text fields and reduces CPF and phone to at most eleven
// digits.
func (in SubmissionInput) Normalize() SubmissionInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.CPF = truncate(Digits(in.CPF), maxDigits)
	in.Phone = truncate(Digits(in.Phone), maxDigits)
	in.AffiliateCode = strings.TrimSpace(in.AffiliateCode)
	return in
}

// Validate checks that every field is present and the credential is long
// enough. Call it on normalized input.
func (in SubmissionInput) Validate() error {
	if in.Name == "" || in.Email == "" || in.CPF == "" || in.Phone == "" || in.Password == "" {
		return &ValidationError{Message: "Todos os campos são obrigatórios"}
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		return &ValidationError{
			Field:   "senha",
			Message: fmt.Sprintf("A senha deve ter no mínimo %d caracteres", MinPasswordLength),
		}
	}
	return nil
}

// FromSubmission builds the update body for an existing record.
func FromSubmission(s Submission) SubmissionInput {
	return SubmissionInput{
		Name:     s.Name,
		Email:    s.Email,
		CPF:      s.CPF,
		Phone:    s.Phone,
		Password: s.Password,
		TagIDs:   s.Tags.IDs(),
	}
}

// RequireText returns a ValidationError when value is blank.
func RequireText(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: message}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
