package worker

// email_worker.go
// Processes email jobs from QueueEmail: the close-of-day report PDF mailed to
// the owner.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ReporteSender is the mail transport; *infra.Mailer satisfies it.
type ReporteSender interface {
	SendReporte(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer ReporteSender
}

func NewEmailWorker(mailer ReporteSender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one email. A payload without recipient is dropped.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: email payload: %v", ErrPermanente, err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: report sent")
	return nil
}
