package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueBoleta = "jobs:boleta"
	QueueEmail  = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// BoletaJobPayload asks the boleta worker to render (and optionally mail)
// the PDF receipt of a committed sale.
type BoletaJobPayload struct {
	VentaID      string  `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// EmailJobPayload delivers a rendered boleta by mail.
type EmailJobPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// EnqueueBoleta pushes a boleta rendering job to Redis.
func (d *Dispatcher) EnqueueBoleta(ctx context.Context, payload BoletaJobPayload) error {
	return d.enqueue(ctx, QueueBoleta, "boleta", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers wires the concrete processors consumed by the pool.
type WorkerHandlers struct {
	Boleta *BoletaWorker
	Email  *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueBoleta, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueBoleta:
		if handlers.Boleta != nil {
			handlers.Boleta.Process(ctx, rdb, job)
		}
	case QueueEmail:
		if handlers.Email != nil {
			handlers.Email.Process(ctx, rdb, job)
		}
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue")
	}
}
