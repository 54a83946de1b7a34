package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "info", "json")).Info("hello", "n", 1)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json format produced %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v", entry["msg"])
	}

	buf.Reset()
	slog.New(newHandler(&buf, "warn", "text")).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(newHandler(&buf, "info", "text")))
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx).Info("x")
	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("log line missing request id: %q", buf.String())
	}
}

func TestGELFWriter_SendsMessage(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listen unavailable: %v", err)
	}
	defer pc.Close()

	w, err := NewGELFWriter(pc.LocalAddr().String(), "leadintake")
	if err != nil {
		t.Fatalf("NewGELFWriter() error = %v", err)
	}
	defer w.Close()

	logger := slog.New(slog.NewJSONHandler(w, nil))
	logger.Warn("import finished", "batch_id", "b-1", "id", "abc")

	pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 8192)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read gelf packet: %v", err)
	}

	var msg map[string]any
	if err := json.Unmarshal(buf[:n], &msg); err != nil {
		t.Fatalf("decode gelf packet: %v", err)
	}
	if msg["version"] != "1.1" || msg["short_message"] != "import finished" {
		t.Errorf("unexpected message: %v", msg)
	}
	if msg["level"] != float64(4) {
		t.Errorf("level = %v, want 4", msg["level"])
	}
	if msg["_batch_id"] != "b-1" || msg["_record_id"] != "abc" || msg["_service"] != "leadintake" {
		t.Errorf("additional fields = %v", msg)
	}
}

func TestGELFWriter_IgnoresGarbage(t *testing.T) {
	w := &GELFWriter{hostname: "h", service: "s"}
	if _, err := w.encode([]byte("not json")); err == nil {
		t.Error("encode() of non-JSON should fail")
	}
}

func TestFanout(t *testing.T) {
	var a, b bytes.Buffer
	h := fanout{newHandler(&a, "info", "text"), newHandler(&b, "error", "text")}
	logger := slog.New(h).With("component", "test")

	logger.Info("only a")
	logger.Error("both")

	if !strings.Contains(a.String(), "only a") || !strings.Contains(a.String(), "both") {
		t.Errorf("handler a got %q", a.String())
	}
	if strings.Contains(b.String(), "only a") || !strings.Contains(b.String(), "component=test") {
		t.Errorf("handler b got %q", b.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled on both handlers")
	}
}
