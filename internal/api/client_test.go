package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/google/go-cmp/cmp"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// newTestClient starts a server that records each request and replies with
// handler's status and body.
func newTestClient(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/", srv.Client())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, &calls
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://x", "://", "localhost:3000"} {
		if _, err := New(raw, nil); err == nil {
			t.Errorf("New(%q) expected error", raw)
		}
	}
}

func TestListSubmissions_SendsBearer(t *testing.T) {
	c, calls := newTestClient(t, 200, `[{"_id":"1","nome":"A","status":"concluido","fintechIds":["t1"]}]`)

	got, err := c.WithToken("tok").ListSubmissions(context.Background())
	if err != nil {
		t.Fatalf("ListSubmissions() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != leads.StatusCompleted || got[0].Tags[0].ID != "t1" {
		t.Errorf("ListSubmissions() = %+v", got)
	}

	call := (*calls)[0]
	if call.method != http.MethodGet || call.path != "/api/formulario" {
		t.Errorf("request = %s %s", call.method, call.path)
	}
	if call.auth != "Bearer tok" {
		t.Errorf("Authorization = %q", call.auth)
	}
}

func TestSubmit_IsAnonymous(t *testing.T) {
	c, calls := newTestClient(t, 201, `{}`)

	in := leads.SubmissionInput{Name: "A", Email: "a@x", CPF: "1", Phone: "2", Password: "123456", AffiliateCode: "REF1"}
	if err := c.WithToken("tok").Submit(context.Background(), in); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	call := (*calls)[0]
	if call.auth != "" {
		t.Errorf("public submit sent Authorization %q", call.auth)
	}
	if call.body["codigoAfiliado"] != "REF1" {
		t.Errorf("body = %v", call.body)
	}
	if _, ok := call.body["fintechIds"]; ok {
		t.Error("public submit should omit fintechIds")
	}
}

func TestUpdateSubmission_AlwaysSendsTagIDs(t *testing.T) {
	c, calls := newTestClient(t, 200, `{}`)

	in := leads.SubmissionInput{Name: "A", Email: "a@x", CPF: "1", Phone: "2", Password: "123456"}
	if err := c.UpdateSubmission(context.Background(), "abc", in); err != nil {
		t.Fatalf("UpdateSubmission() error = %v", err)
	}

	call := (*calls)[0]
	if call.method != http.MethodPut || call.path != "/api/formulario/abc" {
		t.Errorf("request = %s %s", call.method, call.path)
	}
	ids, ok := call.body["fintechIds"].([]any)
	if !ok || len(ids) != 0 {
		t.Errorf("fintechIds = %#v, want empty list", call.body["fintechIds"])
	}
}

func TestSetStatus(t *testing.T) {
	c, calls := newTestClient(t, 200, `{}`)
	if err := c.SetStatus(context.Background(), "x/1", leads.StatusAlreadyRegistered); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPatch || call.path != "/api/formulario/x/1/status" {
		t.Errorf("request = %s %s", call.method, call.path)
	}
	if call.body["status"] != "jaCadastrado" {
		t.Errorf("body = %v", call.body)
	}
}

func TestLogin(t *testing.T) {
	c, calls := newTestClient(t, 200, `{"token":"jwt-1","admin":{"email":"root@x"}}`)

	got, err := c.Login(context.Background(), Credentials{Email: "root@x", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.Token != "jwt-1" || got.Admin.Email != "root@x" {
		t.Errorf("Login() = %+v", got)
	}
	if diff := cmp.Diff(map[string]any{"email": "root@x", "password": "pw"}, (*calls)[0].body); diff != "" {
		t.Errorf("login body mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	c, _ := newTestClient(t, 200, `{"admin":{"email":"root@x"}}`)
	if _, err := c.Login(context.Background(), Credentials{Email: "root@x"}); err == nil {
		t.Error("Login() expected error when no token is returned")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"unauthorized", 401, `{"message":"Token inválido"}`, ErrUnauthorized, "Token inválido"},
		{"rate limited by code", 400, `{"message":"slow down","code":"RATE_LIMIT_EXCEEDED"}`, ErrRateLimited, "slow down"},
		{"rate limited by status", 429, `too many`, ErrRateLimited, "too many"},
		{"not found", 404, `{"error":"Formulário não encontrado"}`, ErrNotFound, "Formulário não encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.status, tt.body)
			err := c.DeleteSubmission(context.Background(), "1")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) || apiErr.Status != tt.status {
				t.Fatalf("err = %#v, want *Error with status %d", err, tt.status)
			}
			if msg, _ := Message(err); msg != tt.message {
				t.Errorf("Message() = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestAffiliateSubmissions_AcceptsBothShapes(t *testing.T) {
	for _, body := range []string{
		`[{"_id":"1"},{"_id":"2"}]`,
		`{"afiliado":{"_id":"a"},"formularios":[{"_id":"1"},{"_id":"2"}]}`,
	} {
		c, _ := newTestClient(t, 200, body)
		got, err := c.AffiliateSubmissions(context.Background(), "a")
		if err != nil {
			t.Fatalf("AffiliateSubmissions(%s) error = %v", body, err)
		}
		if len(got) != 2 {
			t.Errorf("AffiliateSubmissions(%s) = %d records", body, len(got))
		}
	}
}

func TestTagInputFrom(t *testing.T) {
	c, calls := newTestClient(t, 200, `{}`)
	tag := leads.Tag{ID: "t1", Name: "Banco X", Active: false}
	if err := c.UpdateTag(context.Background(), tag.ID, TagInputFrom(tag)); err != nil {
		t.Fatalf("UpdateTag() error = %v", err)
	}
	want := map[string]any{"nome": "Banco X", "cor": leads.DefaultTagColor, "ativo": false}
	if diff := cmp.Diff(want, (*calls)[0].body); diff != "" {
		t.Errorf("tag body mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateAffiliate(t *testing.T) {
	c, calls := newTestClient(t, 201, `{"_id":"a1","nome":"Norte","codigo":"NORTE1"}`)
	got, err := c.CreateAffiliate(context.Background(), "Norte")
	if err != nil {
		t.Fatalf("CreateAffiliate() error = %v", err)
	}
	if got.Code != "NORTE1" || (*calls)[0].body["nome"] != "Norte" {
		t.Errorf("CreateAffiliate() = %+v, body %v", got, (*calls)[0].body)
	}
}

func TestPublicConfig(t *testing.T) {
	c, calls := newTestClient(t, 200, `{"tituloPrincipal":"T","subtitulo":"","descricao":"D"}`)
	got, err := c.WithToken("tok").PublicConfig(context.Background())
	if err != nil {
		t.Fatalf("PublicConfig() error = %v", err)
	}
	if got.WithDefaults().Subtitle != leads.DefaultFormSubtitle || got.Title != "T" {
		t.Errorf("PublicConfig() = %+v", got)
	}
	if (*calls)[0].auth != "" {
		t.Error("public config sent a credential")
	}
}
