package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Messages returned as validation errors by Import.
const (
	MsgImportEmpty     = "Cole o texto para importar"
	MsgImportNoEntries = "Nenhum formulário válido encontrado no texto"
)

// genericFailure is recorded when the API gives no message.
const genericFailure = "Erro"

// Importer posts parsed candidates one by one. There is no rollback: each
// entry succeeds or fails on its own.
type Importer struct {
	creator Creator
	history History
	limiter *rate.Limiter
	now     func() time.Time
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithHistory records every report.
func WithHistory(h History) ImporterOption {
	return func(i *Importer) { i.history = h }
}

// WithPacing limits posts to perSecond requests per second.
func WithPacing(perSecond float64) ImporterOption {
	return func(i *Importer) {
		if perSecond > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewImporter creates an importer posting through c.
func NewImporter(c Creator, opts ...ImporterOption) *Importer {
	i := &Importer{creator: c, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Parse validates the pasted text and returns the candidates it contains.
func Parse(text string) ([]leads.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &leads.ValidationError{Field: "import", Message: MsgImportEmpty}
	}
	candidates := leads.ParseImport(text)
	if len(candidates) == 0 {
		return nil, &leads.ValidationError{Field: "import", Message: MsgImportNoEntries}
	}
	return candidates, nil
}

// Import parses text and posts every candidate. A validation error is
// returned before any network call; per-entry failures land in the report.
func (i *Importer) Import(ctx context.Context, text, adminEmail string) (ImportReport, error) {
	candidates, err := Parse(text)
	if err != nil {
		return ImportReport{}, err
	}
	return i.Post(ctx, candidates, adminEmail), nil
}

// Post sends already parsed candidates.
func (i *Importer) Post(ctx context.Context, candidates []leads.Candidate, adminEmail string) ImportReport {
	report := ImportReport{
		BatchID:    uuid.NewString(),
		AdminEmail: adminEmail,
		Total:      len(candidates),
		StartedAt:  i.now(),
	}
	logger := logging.WithFields(ctx, "batch_id", report.BatchID, "candidates", report.Total)
	logger.Info("import started")

	for _, c := range candidates {
		if i.limiter != nil {
			if err := i.limiter.Wait(ctx); err != nil {
				report.Failures = append(report.Failures, ImportFailure{Name: c.Name, Message: err.Error()})
				continue
			}
		}
		if err := i.creator.CreateSubmission(ctx, c.Input()); err != nil {
			msg, ok := api.Message(err)
			if !ok {
				msg = genericFailure
			}
			logger.Warn("import entry rejected", "name", c.Name, "error", err)
			report.Failures = append(report.Failures, ImportFailure{Name: c.Name, Message: msg})
			continue
		}
		report.Succeeded++
	}
	report.Duration = i.now().Sub(report.StartedAt)

	logger.Info("import completed",
		"succeeded", report.Succeeded,
		"failed", report.Failed(),
		"duration_ms", report.Duration.Milliseconds(),
	)

	if i.history != nil {
		// Use a fresh context: the request may already be cancelled.
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := i.history.Record(hctx, report); err != nil {
			slog.Error("record import history", "batch_id", report.BatchID, "error", err)
		}
	}
	return report
}
