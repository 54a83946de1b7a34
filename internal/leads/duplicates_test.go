package leads

import (
	"fmt"
	"testing"
	"time"
)

var base = time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

func sub(id string, minutes int, email, cpf, phone string) Submission {
	return Submission{
		ID:        id,
		Name:      "Lead " + id,
		Email:     email,
		CPF:       cpf,
		Phone:     phone,
		Status:    StatusPending,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestDuplicateIndex_CPFScenario(t *testing.T) {
	first := sub("a", 0, "a@example.com", "12345678900", "68999990001")
	second := sub("b", 5, "b@example.com", "12345678900", "68999990002")
	other := sub("c", 1, "c@example.com", "99988877766", "68999990003")
	// Input order puts the later record first.
	records := []Submission{second, other, first}

	idx := NewDuplicateIndex(records)

	if !idx.IsCanonical(first, FieldCPF) {
		t.Error("first record should be canonical on CPF")
	}
	if !idx.IsDuplicate(second, FieldCPF) {
		t.Error("second record should be a duplicate on CPF")
	}
	if idx.Classify(other, FieldCPF) != Unique {
		t.Errorf("unrelated record classified %v, want unique", idx.Classify(other, FieldCPF))
	}
	if idx.Classify(first, FieldEmail) != Unique {
		t.Error("distinct emails must not be classified")
	}

	got := Apply(records, Filter{DuplicatesOnly: true}, idx)
	if len(got) != 2 {
		t.Fatalf("duplicates-only returned %d records, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("duplicates-only order = [%s %s], want input order [b a]", got[0].ID, got[1].ID)
	}

	if c, ok := idx.Canonical(FieldCPF, "12345678900"); !ok || c.ID != "a" {
		t.Errorf("Canonical(cpf) = %v, %v; want a", c.ID, ok)
	}
	if n := idx.Count(second, FieldCPF); n != 2 {
		t.Errorf("Count(cpf) = %d, want 2", n)
	}
	if n := idx.Count(other, FieldCPF); n != 1 {
		t.Errorf("Count(unique cpf) = %d, want 1", n)
	}
}

func TestDuplicateIndex_EqualTimestampsFallBackToID(t *testing.T) {
	x := sub("x", 0, "same@example.com", "1", "")
	y := sub("y", 0, "same@example.com", "2", "")

	for _, records := range [][]Submission{{x, y}, {y, x}} {
		idx := NewDuplicateIndex(records)
		if !idx.IsCanonical(x, FieldEmail) {
			t.Errorf("with input %s,%s: x should be canonical", records[0].ID, records[1].ID)
		}
		if !idx.IsDuplicate(y, FieldEmail) {
			t.Errorf("with input %s,%s: y should be duplicate", records[0].ID, records[1].ID)
		}
	}
}

func TestDuplicateIndex_EmptyValuesNeverMatch(t *testing.T) {
	records := []Submission{
		sub("a", 0, "a@example.com", "1", ""),
		sub("b", 1, "b@example.com", "2", ""),
	}
	idx := NewDuplicateIndex(records)
	for _, r := range records {
		if idx.HasDuplicates(r) {
			t.Errorf("record %s flagged as duplicate on empty phone", r.ID)
		}
		if idx.Count(r, FieldPhone) != 0 {
			t.Errorf("Count(empty phone) = %d, want 0", idx.Count(r, FieldPhone))
		}
	}
}

func TestDuplicateIndex_Properties(t *testing.T) {
	var records []Submission
	for i := 0; i < 60; i++ {
		records = append(records, sub(
			fmt.Sprintf("id%02d", i),
			(i*7)%13, // repeated timestamps exercise the ID tie-break
			fmt.Sprintf("user%d@example.com", i%9),
			fmt.Sprintf("%011d", i%17),
			fmt.Sprintf("68%09d", i%23),
		))
	}

	idx := NewDuplicateIndex(records)
	again := NewDuplicateIndex(records)

	for _, f := range IdentityFields {
		canonical := 0
		shared := make(map[string]int)
		for _, r := range records {
			shared[r.Field(f)]++
		}
		wantCanonical := 0
		for _, n := range shared {
			if n > 1 {
				wantCanonical++
			}
		}

		for _, r := range records {
			c := idx.Classify(r, f)
			if c == Canonical {
				canonical++
			}
			if idx.IsCanonical(r, f) && idx.IsDuplicate(r, f) {
				t.Fatalf("%s is both canonical and duplicate on %s", r.ID, f)
			}
			if again.Classify(r, f) != c {
				t.Fatalf("classification of %s on %s not idempotent", r.ID, f)
			}
			if ref := ClassifyField(records, r, f); ref != c {
				t.Fatalf("index says %v, scan says %v for %s on %s", c, ref, r.ID, f)
			}
		}

		if canonical != wantCanonical {
			t.Errorf("%s: %d canonical records, want %d shared values", f, canonical, wantCanonical)
		}
		if idx.SharedValues(f) != wantCanonical {
			t.Errorf("%s: SharedValues() = %d, want %d", f, idx.SharedValues(f), wantCanonical)
		}
	}
}

func TestDuplicateFields(t *testing.T) {
	a := sub("a", 0, "dup@example.com", "1", "555")
	b := sub("b", 1, "dup@example.com", "2", "555")
	c := sub("c", 2, "c@example.com", "3", "777")
	idx := NewDuplicateIndex([]Submission{a, b, c})

	got := idx.DuplicateFields(b)
	if len(got) != 2 || got[0] != FieldEmail || got[1] != FieldPhone {
		t.Errorf("DuplicateFields(b) = %v, want [email telefone]", got)
	}
	if len(idx.DuplicateFields(c)) != 0 {
		t.Errorf("DuplicateFields(c) = %v, want none", idx.DuplicateFields(c))
	}
}
