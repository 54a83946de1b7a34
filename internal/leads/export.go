package leads

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNothingToExport is returned instead of writing an empty file.
var ErrNothingToExport = errors.New("nothing to export")

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the download MIME type.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// utf8BOM lets spreadsheet tools detect UTF-8.
const utf8BOM = "\ufeff"

// LocalTimestampLayout mirrors the pt-BR locale rendering of a timestamp.
const LocalTimestampLayout = "02/01/2006, 15:04:05"

// CSVHeader is the fixed export column order.
var CSVHeader = []string{
	"Nome", "E-mail", "CPF", "Telefone", "Senha",
	"Status", "Data de Criação", "Afiliado", "Fintechs",
}

// Exporter encodes submissions for download.
type Exporter struct {
	Directory Directory
	// Location renders human-readable timestamps. Nil means UTC.
	Location *time.Location
}

// Filename returns the download name, dated in the exporter's location.
func (e Exporter) Filename(f Format, now time.Time) string {
	return fmt.Sprintf("formularios_%s.%s", now.In(e.loc()).Format(DateLayout), f)
}

// Write encodes records in format f.
func (e Exporter) Write(w io.Writer, f Format, records []Submission) error {
	switch f {
	case FormatCSV:
		return e.CSV(w, records)
	case FormatJSON:
		return e.JSON(w, records)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// CSV writes a BOM, the header row and one row per record.
func (e Exporter) CSV(w io.Writer, records []Submission) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(e.csvRow(r)); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e Exporter) csvRow(r Submission) []string {
	var names []string
	for _, t := range e.Directory.Tags(r.Tags) {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	tags := strings.Join(names, "; ")
	if tags == "" {
		tags = "N/A"
	}

	return []string{
		r.Name,
		r.Email,
		r.CPF,
		r.Phone,
		r.Password,
		r.Status.Label(),
		r.CreatedAt.In(e.loc()).Format(LocalTimestampLayout),
		e.Directory.AffiliateName(r.Affiliate),
		tags,
	}
}

// ExportTag is a tag as it appears in JSON exports.
type ExportTag struct {
	Name  string `json:"nome"`
	Color string `json:"cor"`
}

// ExportRecord is one submission as it appears in JSON exports.
type ExportRecord struct {
	Name             string      `json:"nome"`
	Email            string      `json:"email"`
	CPF              string      `json:"cpf"`
	Phone            string      `json:"telefone"`
	Password         string      `json:"senha"`
	Status           string      `json:"status"`
	CreatedAt        string      `json:"dataCriacao"`
	CreatedAtDisplay string      `json:"dataCriacaoFormatada"`
	Affiliate        string      `json:"afiliado"`
	HasAffiliate     bool        `json:"temAfiliado"`
	Tags             []ExportTag `json:"fintechs"`
	TagNames         string      `json:"fintechsNomes"`
}

// Records converts submissions into their JSON export shape.
func (e Exporter) Records(records []Submission) []ExportRecord {
	out := make([]ExportRecord, len(records))
	for i, r := range records {
		tags := []ExportTag{}
		var names []string
		for _, t := range e.Directory.Tags(r.Tags) {
			tags = append(tags, ExportTag{Name: t.Name, Color: t.Color})
			names = append(names, t.Name)
		}
		tagNames := strings.Join(names, ", ")
		if tagNames == "" {
			tagNames = "Nenhuma"
		}

		out[i] = ExportRecord{
			Name:             r.Name,
			Email:            r.Email,
			CPF:              r.CPF,
			Phone:            r.Phone,
			Password:         r.Password,
			Status:           r.Status.Label(),
			CreatedAt:        r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			CreatedAtDisplay: r.CreatedAt.In(e.loc()).Format(LocalTimestampLayout),
			Affiliate:        e.Directory.AffiliateName(r.Affiliate),
			HasAffiliate:     r.HasAffiliate(),
			Tags:             tags,
			TagNames:         tagNames,
		}
	}
	return out
}

// JSON writes an indented array of export records.
func (e Exporter) JSON(w io.Writer, records []Submission) error {
	if len(records) == 0 {
		return ErrNothingToExport
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Records(records)); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

func (e Exporter) loc() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// ExportSet picks the records to export: the filtered view when it has any
// rows, otherwise the full set.
func ExportSet(filtered, all []Submission) []Submission {
	if len(filtered) > 0 {
		return filtered
	}
	return all
}
