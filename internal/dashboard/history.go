package dashboard

import (
	"context"
	"slices"
	"sync"
	"time"
)

// ImportFailure is one entry the API rejected.
type ImportFailure struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// String renders the failure as "name: message".
func (f ImportFailure) String() string {
	return f.Name + ": " + f.Message
}

// ImportReport summarises one bulk import.
type ImportReport struct {
	BatchID    string          `json:"batchId"`
	AdminEmail string          `json:"adminEmail,omitempty"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Failures   []ImportFailure `json:"failures"`
	StartedAt  time.Time       `json:"startedAt"`
	Duration   time.Duration   `json:"duration"`
}

// Failed returns the number of rejected entries.
func (r ImportReport) Failed() int {
	return len(r.Failures)
}

// History records import reports.
type History interface {
	Record(ctx context.Context, r ImportReport) error
	Recent(ctx context.Context, limit int) ([]ImportReport, error)
}

// DefaultHistoryLimit is used when Recent is called with a non-positive limit.
const DefaultHistoryLimit = 20

// MemoryHistory keeps the most recent reports in process.
type MemoryHistory struct {
	mu      sync.Mutex
	max     int
	reports []ImportReport
}

// NewMemoryHistory keeps at most max reports.
func NewMemoryHistory(max int) *MemoryHistory {
	if max <= 0 {
		max = 100
	}
	return &MemoryHistory{max: max}
}

func (h *MemoryHistory) Record(_ context.Context, r ImportReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append(h.reports, r)
	if over := len(h.reports) - h.max; over > 0 {
		h.reports = slices.Delete(h.reports, 0, over)
	}
	return nil
}

// Recent returns the newest reports first.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]ImportReport, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ImportReport, 0, min(limit, len(h.reports)))
	for i := len(h.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.reports[i])
	}
	return out, nil
}
