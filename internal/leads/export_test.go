package leads

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func exportFixture() (Exporter, []Submission) {
	dir := NewDirectory(
		[]Affiliate{{ID: "af1", Name: "Parceiro Norte", Code: "NORTE1"}},
		[]Tag{{ID: "t1", Name: "Banco X", Color: "#ff0000", Active: true}, {ID: "t2", Name: "Pay Y", Color: "#00ff00"}},
	)
	e := Exporter{Directory: dir, Location: time.FixedZone("BRT", -3*3600)}

	records := []Submission{
		{
			ID: "1", Name: `Silva, "Maria"`, Email: "m@example.com", CPF: "12345678900",
			Phone: "68999990001", Password: "line1\nline2", Status: StatusCompleted,
			CreatedAt: time.Date(2025, 10, 9, 20, 41, 4, 0, time.UTC),
			Affiliate: &Ref{ID: "af1"},
			Tags:      Refs{{ID: "t1"}, {ID: "t2"}},
		},
		{
			ID: "2", Name: "João", Email: "j@example.com", CPF: "98765432100",
			Password: "abcdef", Status: "",
			CreatedAt: time.Date(2025, 10, 10, 1, 0, 0, 0, time.UTC),
			Affiliate: &Ref{ID: "deleted"},
		},
	}
	return e, records
}

func TestExporterCSV_RoundTrip(t *testing.T) {
	e, records := exportFixture()

	var buf bytes.Buffer
	if err := e.CSV(&buf, records); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	raw := buf.String()
	if !strings.HasPrefix(raw, "\ufeff") {
		t.Fatal("CSV output missing UTF-8 BOM")
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, "\ufeff"))).ReadAll()
	if err != nil {
		t.Fatalf("parse exported CSV: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("got %d rows, want header + %d", len(rows), len(records))
	}
	if diff := cmp.Diff(CSVHeader, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	want1 := []string{
		`Silva, "Maria"`, "m@example.com", "12345678900", "68999990001", "line1\nline2",
		"Concluído", "09/10/2025, 17:41:04", "Parceiro Norte", "Banco X; Pay Y",
	}
	if diff := cmp.Diff(want1, rows[1]); diff != "" {
		t.Errorf("row 1 mismatch (-want +got):\n%s", diff)
	}

	want2 := []string{
		"João", "j@example.com", "98765432100", "", "abcdef",
		"Pendente", "09/10/2025, 22:00:00", "N/A", "N/A",
	}
	if diff := cmp.Diff(want2, rows[2]); diff != "" {
		t.Errorf("row 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestExporterCSV_QuotesSpecialCharacters(t *testing.T) {
	e, records := exportFixture()
	var buf bytes.Buffer
	if err := e.CSV(&buf, records[:1]); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"Silva, ""Maria"""`) {
		t.Errorf("name not quoted with doubled quotes:\n%s", buf.String())
	}
}

func TestExporterJSON(t *testing.T) {
	e, records := exportFixture()

	var buf bytes.Buffer
	if err := e.JSON(&buf, records); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var got []ExportRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode JSON export: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	first := got[0]
	if !first.HasAffiliate || first.Affiliate != "Parceiro Norte" {
		t.Errorf("affiliate = %q/%v, want Parceiro Norte/true", first.Affiliate, first.HasAffiliate)
	}
	if first.CreatedAt != "2025-10-09T20:41:04.000Z" {
		t.Errorf("dataCriacao = %q", first.CreatedAt)
	}
	wantTags := []ExportTag{{Name: "Banco X", Color: "#ff0000"}, {Name: "Pay Y", Color: "#00ff00"}}
	if diff := cmp.Diff(wantTags, first.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if first.TagNames != "Banco X, Pay Y" {
		t.Errorf("fintechsNomes = %q", first.TagNames)
	}

	second := got[1]
	if second.Affiliate != "N/A" || !second.HasAffiliate {
		t.Errorf("dangling affiliate = %q/%v, want N/A/true", second.Affiliate, second.HasAffiliate)
	}
	if second.TagNames != "Nenhuma" || len(second.Tags) != 0 {
		t.Errorf("no tags rendered as %q %v", second.TagNames, second.Tags)
	}
	if second.Status != "Pendente" {
		t.Errorf("status = %q, want Pendente", second.Status)
	}
}

func TestExporter_EmptyInput(t *testing.T) {
	e, _ := exportFixture()
	for _, f := range []Format{FormatCSV, FormatJSON} {
		var buf bytes.Buffer
		err := e.Write(&buf, f, nil)
		if !errors.Is(err, ErrNothingToExport) {
			t.Errorf("%s: err = %v, want ErrNothingToExport", f, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: wrote %d bytes for empty input", f, buf.Len())
		}
	}
}

func TestExporterFilename(t *testing.T) {
	e, _ := exportFixture()
	now := time.Date(2025, 10, 10, 1, 0, 0, 0, time.UTC)
	if got := e.Filename(FormatCSV, now); got != "formularios_2025-10-09.csv" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON "); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("ParseFormat(xlsx) should fail")
	}
}

func TestExportSet(t *testing.T) {
	all := []Submission{{ID: "1"}, {ID: "2"}}
	if got := ExportSet(nil, all); len(got) != 2 {
		t.Errorf("ExportSet(empty filtered) = %d records, want full set", len(got))
	}
	if got := ExportSet(all[:1], all); len(got) != 1 {
		t.Errorf("ExportSet(filtered) = %d records, want 1", len(got))
	}
}
