package worker

// boleta_worker.go
// Renders the PDF boleta of a committed sale and, when the client left an
// email, chains an email job. Failures are retried up to MaxAttempts and then
// parked in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"tiendapos/internal/infra"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type BoletaWorker struct {
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewBoletaWorker(ventaRepo repository.VentaRepository, dispatcher *Dispatcher, pdfStoragePath string) *BoletaWorker {
	return &BoletaWorker{
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *BoletaWorker) Process(ctx context.Context, rdb *redis.Client, job Job) {
	var payload BoletaJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("boleta_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("boleta_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		requeue(ctx, rdb, QueueBoleta, job, fmt.Sprintf("venta lookup: %v", err))
		return
	}

	pdfPath, err := infra.GenerateBoletaPDF(venta, w.pdfStoragePath)
	if err != nil {
		requeue(ctx, rdb, QueueBoleta, job, fmt.Sprintf("pdf render: %v", err))
		return
	}

	log.Info().
		Int("numero_boleta", venta.NumeroBoleta).
		Str("pdf", pdfPath).
		Msg("boleta_worker: boleta generada")

	if payload.ClienteEmail != nil && *payload.ClienteEmail != "" {
		_ = w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			To:      *payload.ClienteEmail,
			Subject: fmt.Sprintf("Boleta N°%d", venta.NumeroBoleta),
			Body:    "Adjuntamos su boleta. Gracias por su compra.",
			PDFPath: pdfPath,
		})
	}
}
