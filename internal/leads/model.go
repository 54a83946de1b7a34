package leads

import (
	"regexp"
	"strings"
	"time"
)

// Status is the review state of a submission. Values match the remote API.
type Status string

const (
	StatusPending           Status = "pendente"
	StatusCompleted         Status = "concluido"
	StatusAlreadyRegistered Status = "jaCadastrado"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusCompleted, StatusAlreadyRegistered}

// Label returns the human-readable label. Unknown values read as pending.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Concluído"
	case StatusAlreadyRegistered:
		return "Já Cadastrado"
	default:
		return "Pendente"
	}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusAlreadyRegistered:
		return true
	}
	return false
}

// Submission is a single form entry.
type Submission struct {
	ID        string    `json:"_id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"telefone"`
	Password  string    `json:"senha"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Affiliate *Ref      `json:"afiliadoId,omitempty"`
	Tags      Refs      `json:"fintechIds,omitempty"`
}

// HasAffiliate reports whether the submission carries an affiliate reference.
func (s Submission) HasAffiliate() bool {
	return s.Affiliate != nil && s.Affiliate.ID != ""
}

// Field returns the value of an identifying field.
func (s Submission) Field(f Field) string {
	switch f {
	case FieldEmail:
		return s.Email
	case FieldCPF:
		return s.CPF
	case FieldPhone:
		return s.Phone
	}
	return ""
}

// Affiliate is a referral partner. SubmissionCount is derived by the API.
type Affiliate struct {
	ID              string    `json:"_id"`
	Name            string    `json:"nome"`
	Code            string    `json:"codigo"`
	CreatedAt       time.Time `json:"createdAt"`
	SubmissionCount int       `json:"totalFormularios"`
}

// DefaultTagColor is used when a tag has no color of its own.
const DefaultTagColor = "#666666"

// Tag is a partner tag ("fintech") attachable to many submissions.
type Tag struct {
	ID     string `json:"_id"`
	Name   string `json:"nome"`
	Color  string `json:"cor"`
	Active bool   `json:"ativo"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

// DisplayColor returns the trimmed color when it is a hex color, otherwise
// DefaultTagColor. The value lands in a style attribute.
func (t Tag) DisplayColor() string {
	if c := strings.TrimSpace(t.Color); hexColor.MatchString(c) {
		return c
	}
	return DefaultTagColor
}

// Admin is a dashboard operator account.
type Admin struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProtectedAdminEmail is the built-in account that can never be deleted.
const ProtectedAdminEmail = "admin@admin.com"

// FormConfig is the copy shown on the public form.
type FormConfig struct {
	Title       string `json:"tituloPrincipal"`
	Subtitle    string `json:"subtitulo"`
	Description string `json:"descricao"`
}

// Form copy used when the remote configuration is empty.
const (
	DefaultFormTitle       = "CADASTRO DO PAINEL OPERACIONAL FINTECH"
	DefaultFormSubtitle    = "GERÊNCIA $IX"
	DefaultFormDescription = "PREENCHA O FORMULÁRIO ABAIXO COM OS SEUS DADOS"
)

// WithDefaults fills empty fields with the default copy.
func (c FormConfig) WithDefaults() FormConfig {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = DefaultFormTitle
	}
	if strings.TrimSpace(c.Subtitle) == "" {
		c.Subtitle = DefaultFormSubtitle
	}
	if strings.TrimSpace(c.Description) == "" {
		c.Description = DefaultFormDescription
	}
	return c
}

// Field names an identifying field used for duplicate detection.
type Field string

const (
	FieldEmail Field = "email"
	FieldCPF   Field = "cpf"
	FieldPhone Field = "telefone"
)

// IdentityFields lists the fields checked for duplicates.
var IdentityFields = []Field{FieldEmail, FieldCPF, FieldPhone}

// Label returns the dashboard label for the field.
func (f Field) Label() string {
	switch f {
	case FieldEmail:
		return "E-mail"
	case FieldCPF:
		return "CPF"
	case FieldPhone:
		return "Telefone"
	}
	return string(f)
}
