package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"
)

// GELFWriter sends one GELF 1.1 message per JSON log line over UDP.
// It expects input produced by slog.JSONHandler.
type GELFWriter struct {
	conn     net.Conn
	hostname string
	service  string
}

// NewGELFWriter dials addr (e.g. "graylog:12201") over UDP.
func NewGELFWriter(addr, service string) (*GELFWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial gelf %s: %w", addr, err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}

	return &GELFWriter{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Malformed lines and send failures are dropped
// so that logging never fails the caller.
func (w *GELFWriter) Write(p []byte) (int, error) {
	payload, err := w.encode(p)
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}

// Close releases the UDP socket.
func (w *GELFWriter) Close() error {
	return w.conn.Close()
}

func (w *GELFWriter) encode(line []byte) ([]byte, error) {
	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, err
	}

	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"level":     6,
		"_service":  w.service,
	}

	for k, v := range entry {
		switch k {
		case slog.MessageKey:
			msg["short_message"] = v
		case slog.LevelKey:
			if s, ok := v.(string); ok {
				msg["level"] = syslogLevel(s)
			}
		case slog.TimeKey:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					msg["timestamp"] = float64(t.UnixNano()) / 1e9
				}
			}
		case "id":
			// GELF reserves _id.
			msg["_record_id"] = v
		default:
			msg["_"+k] = v
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = string(line)
	}

	return json.Marshal(msg)
}

// syslogLevel maps slog level names to syslog severities.
func syslogLevel(level string) int {
	switch parseLevel(level) {
	case slog.LevelDebug:
		return 7
	case slog.LevelWarn:
		return 4
	case slog.LevelError:
		return 3
	default:
		return 6
	}
}

// AttachGELF mirrors the default logger to a GELF endpoint in addition to
// its current destination. The returned closer releases the socket.
func AttachGELF(addr, service, level string) (io.Closer, error) {
	w, err := NewGELFWriter(addr, service)
	if err != nil {
		return nil, err
	}

	gelf := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	slog.SetDefault(slog.New(fanout{slog.Default().Handler(), gelf}))
	return w, nil
}

// fanout dispatches each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
