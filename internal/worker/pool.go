package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restopos/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueCierre = "jobs:cierre"
	QueueEmail  = "jobs:email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3

	popTimeout = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// CierreJobPayload carries a sealed session snapshot, so the worker never
// reads the live ledger.
type CierreJobPayload struct {
	Restaurante string           `json:"restaurante"`
	Sesion      model.SesionCaja `json:"sesion"`
}

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ErrPermanente marks failures that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanente = errors.New("permanent job failure")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueCierre queues the close-of-day report for a sealed session.
func (d *Dispatcher) EnqueueCierre(ctx context.Context, payload CierreJobPayload) error {
	return d.enqueue(ctx, QueueCierre, "cierre", payload)
}

// EnqueueEmail queues an email.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler // by queue
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle workers
// cost nothing; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) queues() []string {
	qs := make([]string, 0, len(p.handlers))
	for _, q := range []string{QueueCierre, QueueEmail} {
		if _, ok := p.handlers[q]; ok {
			qs = append(qs, q)
		}
	}
	return qs
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := p.queues()
	if len(queues) == 0 {
		return
	}
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		result, err := p.rdb.BRPop(ctx, popTimeout, queues...).Result()
		if err != nil {
			continue // timeout or context cancelled
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

// processJob runs one raw job. Failures are re-queued until MaxAttempts and
// then moved to the dead letter queue.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "invalid envelope: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler for queue")
		return
	}

	job.Attempts++
	log.Info().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts).Msg("processing job")

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if errors.Is(err, ErrPermanente) || job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("queue", queue).Int("attempt", job.Attempts).Msg("job failed, re-queued")
	if perr := push(ctx, p.rdb, queue, job); perr != nil {
		log.Error().Err(perr).Str("queue", queue).Msg("failed to re-queue job")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
	}
}
