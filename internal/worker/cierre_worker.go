package worker

// cierre_worker.go
// Processes close-of-day jobs from QueueCierre: renders the session report
// PDF and, when a recipient is configured, queues it for email.

import (
	"context"
	"encoding/json"
	"fmt"

	"restopos/internal/infra"
	"restopos/internal/money"

	"github.com/rs/zerolog/log"
)

type CierreWorker struct {
	dispatcher  *Dispatcher
	reportsPath string
	destino     string
}

// NewCierreWorker wires the report worker. destino is the owner's address;
// empty means the PDF is only written to reportsPath.
func NewCierreWorker(dispatcher *Dispatcher, reportsPath, destino string) *CierreWorker {
	return &CierreWorker{dispatcher: dispatcher, reportsPath: reportsPath, destino: destino}
}

func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: cierre payload: %v", ErrPermanente, err)
	}
	s := &payload.Sesion

	path, err := infra.GenerateCierrePDF(payload.Restaurante, s, w.reportsPath)
	if err != nil {
		return err
	}
	log.Info().Str("sesion_caja_id", s.ID).Str("pdf", path).Msg("cierre_worker: report written")

	if w.destino == "" || w.dispatcher == nil {
		return nil
	}
	body := fmt.Sprintf("Cierre de caja %s (%s)\nEfectivo esperado: %s\nContado: %s\nDiferencia: %s (%s)\nTotal final: %s\n",
		s.FechaApertura(), s.Cajero,
		money.Format(s.EfectivoEsperado), money.Format(s.Conteo),
		money.Format(s.DiferenciaEfectivo), s.ClasificacionDesvio,
		money.Format(s.Final))
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.destino,
		Subject: fmt.Sprintf("%s: cierre de caja %s", payload.Restaurante, s.FechaApertura()),
		Body:    body,
		PDFPath: path,
	})
}
