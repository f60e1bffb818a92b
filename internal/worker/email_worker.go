package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"tiendapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(ctx context.Context, rdb *redis.Client, job Job) {
	var payload EmailJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}

	if w.mailer == nil {
		log.Warn().Str("to", payload.To).Msg("email_worker: SMTP no configurado, email descartado")
		return
	}

	if err := w.mailer.Send(payload.To, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		requeue(ctx, rdb, QueueEmail, job, fmt.Sprintf("smtp send: %v", err))
		return
	}

	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: email enviado")
}
