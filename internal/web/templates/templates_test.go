package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
)

func render(t *testing.T, d Dashboard) string {
	t.Helper()
	var buf bytes.Buffer
	if err := DashboardPage(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestDashboardPage_EscapesRecordText(t *testing.T) {
	rec := leads.Submission{ID: "1", Name: `<script>alert(1)</script>`, Status: leads.StatusPending}
	out := render(t, Dashboard{
		Tab:     TabSubmissions,
		State:   dashboard.State{Submissions: []leads.Submission{rec}},
		Records: []leads.Submission{rec},
	})

	if strings.Contains(out, "<script>alert(1)") {
		t.Error("record name rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped record name missing")
	}
}

func TestDashboardPage_DuplicateBadges(t *testing.T) {
	old := leads.Submission{ID: "a", CPF: "12345678900", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	dup := leads.Submission{ID: "b", CPF: "12345678900", CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	records := []leads.Submission{old, dup}

	out := render(t, Dashboard{
		Tab:     TabSubmissions,
		State:   dashboard.State{Submissions: records},
		Records: records,
		Index:   leads.NewDuplicateIndex(records),
	})

	if !strings.Contains(out, "CPF original (2)") {
		t.Error("canonical badge missing")
	}
	if !strings.Contains(out, "CPF duplicado") {
		t.Error("duplicate badge missing")
	}
}

func TestDashboardPage_TagColorCannotInjectCSS(t *testing.T) {
	rec := leads.Submission{ID: "1", Name: "A", Tags: leads.Refs{{ID: "t1"}}}
	out := render(t, Dashboard{
		Tab: TabSubmissions,
		State: dashboard.State{
			Submissions: []leads.Submission{rec},
			Tags:        []leads.Tag{{ID: "t1", Name: "Banco X", Color: "red;background-image:url(x)", Active: true}},
		},
		Records: []leads.Submission{rec},
	})

	if strings.Contains(out, "background-image") {
		t.Error("tag color injected a CSS declaration")
	}
	if !strings.Contains(out, "background:"+leads.DefaultTagColor+";") {
		t.Error("invalid tag color did not fall back to the default")
	}
}

func TestDashboardPage_ProtectedAdminHasNoDelete(t *testing.T) {
	out := render(t, Dashboard{
		Tab:            TabAdmins,
		ProtectedAdmin: leads.ProtectedAdminEmail,
		State: dashboard.State{Admins: []leads.Admin{
			{ID: "1", Email: leads.ProtectedAdminEmail},
			{ID: "2", Email: "ops@example.com"},
		}},
	})

	if strings.Contains(out, "/admins/1/excluir") {
		t.Error("protected admin offered a delete action")
	}
	if !strings.Contains(out, "/admins/2/excluir") {
		t.Error("regular admin missing delete action")
	}
}

func TestPublicFormPage_Submitted(t *testing.T) {
	var buf bytes.Buffer
	d := PublicForm{Config: leads.FormConfig{}.WithDefaults(), Submitted: true, GroupURL: "https://chat.example.com/g"}
	if err := PublicFormPage(d).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Formulário Enviado!") || !strings.Contains(out, "https://chat.example.com/g") {
		t.Errorf("confirmation page missing content:\n%s", out)
	}
	if strings.Contains(out, `name="senha"`) {
		t.Error("form rendered after submission")
	}
}

func TestReferralLink(t *testing.T) {
	if got := ReferralLink("https://leads.example.com/", "NORTE1"); got != "https://leads.example.com/?ref=NORTE1" {
		t.Errorf("ReferralLink() = %q", got)
	}
}
