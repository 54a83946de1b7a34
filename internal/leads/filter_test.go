package leads

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func filterFixture() []Submission {
	a := sub("a", 0, "maria@example.com", "12345678900", "68999990001")
	a.Name = "Maria Silva"
	a.Tags = Refs{{ID: "t1"}}

	b := sub("b", 60*24, "joao@example.com", "98765432100", "68999990002")
	b.Name = "João Souza"
	b.Status = StatusCompleted

	c := sub("c", 30, "MARIA@example.com", "12345678900", "11911112222")
	c.Name = "Mariana"
	c.Status = StatusAlreadyRegistered
	c.Tags = Refs{{ID: "t2", Name: "Banco X", Expanded: true}, {ID: "t1"}}

	return []Submission{a, b, c}
}

func ids(records []Submission) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply(t *testing.T) {
	records := filterFixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"neutral", Filter{}, []string{"a", "b", "c"}},
		{"neutral with sentinels", Filter{Status: FilterAll, Tag: FilterAll}, []string{"a", "b", "c"}},
		{"query on name is case-insensitive", Filter{Query: "MARI"}, []string{"a", "c"}},
		{"query on email", Filter{Query: "joao@"}, []string{"b"}},
		{"query on cpf digits", Filter{Query: "987654"}, []string{"b"}},
		{"query on phone digits", Filter{Query: "119111"}, []string{"c"}},
		{"date", Filter{Date: "2025-10-10"}, []string{"b"}},
		{"status", Filter{Status: string(StatusAlreadyRegistered)}, []string{"c"}},
		{"tag id", Filter{Tag: "t1"}, []string{"a", "c"}},
		{"expanded tag id", Filter{Tag: "t2"}, []string{"c"}},
		{"no tag", Filter{Tag: FilterNoTag}, []string{"b"}},
		{"duplicates only", Filter{DuplicatesOnly: true}, []string{"a", "c"}},
		{"conjunction", Filter{Query: "mari", Status: string(StatusPending), Tag: "t1"}, []string{"a"}},
		{"no match", Filter{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(records, tt.filter, nil))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_DateUsesLocation(t *testing.T) {
	// 02:00 UTC on the 10th is still the 9th in São Paulo.
	r := Submission{ID: "late", CreatedAt: time.Date(2025, 10, 10, 2, 0, 0, 0, time.UTC)}
	brt := time.FixedZone("BRT", -3*3600)

	if got := Apply([]Submission{r}, Filter{Date: "2025-10-09", Location: brt}, nil); len(got) != 1 {
		t.Errorf("local date filter returned %d records, want 1", len(got))
	}
	if got := Apply([]Submission{r}, Filter{Date: "2025-10-09"}, nil); len(got) != 0 {
		t.Errorf("UTC date filter returned %d records, want 0", len(got))
	}
}

func TestApply_DuplicatesOnlyIsSubsetOfHasDuplicates(t *testing.T) {
	records := filterFixture()
	idx := NewDuplicateIndex(records)
	got := Apply(records, Filter{DuplicatesOnly: true}, idx)

	in := make(map[string]bool)
	for _, r := range got {
		in[r.ID] = true
		if !idx.HasDuplicates(r) {
			t.Errorf("%s returned but HasDuplicates is false", r.ID)
		}
	}
	for _, r := range records {
		if idx.HasDuplicates(r) && !in[r.ID] {
			t.Errorf("%s has duplicates but was filtered out", r.ID)
		}
	}
}

func TestFilterIsNeutral(t *testing.T) {
	if !(Filter{Status: FilterAll, Tag: FilterAll}).IsNeutral() {
		t.Error("sentinel filter should be neutral")
	}
	if (Filter{DuplicatesOnly: true}).IsNeutral() {
		t.Error("duplicates-only filter should not be neutral")
	}
}

func TestStatusCounts(t *testing.T) {
	records := filterFixture()
	records = append(records, Submission{ID: "d", Status: ""})
	got := StatusCounts(records)
	want := map[Status]int{StatusPending: 2, StatusCompleted: 1, StatusAlreadyRegistered: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StatusCounts() mismatch (-want +got):\n%s", diff)
	}
}
