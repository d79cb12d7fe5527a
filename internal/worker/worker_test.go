package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"restopos/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func popJob(t *testing.T, rdb *redis.Client, queue string) string {
	t.Helper()
	raw, err := rdb.RPop(context.Background(), queue).Result()
	require.NoError(t, err)
	return raw
}

func sesionCerrada() model.SesionCaja {
	s := model.NuevaSesionCaja("c1", 10000, "Ana", "noche", time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC))
	s.AplicarVenta(5000, []model.Pago{{Metodo: "efectivo", Monto: 5000}})
	s.Cerrar(15500, time.Date(2026, 10, 20, 2, 0, 0, 0, time.UTC))
	s.ClasificacionDesvio = "advertencia"
	return *s
}

func TestDispatcherEnqueueCierre(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	d := NewDispatcher(rdb)

	require.NoError(t, d.EnqueueCierre(ctx, CierreJobPayload{Restaurante: "Mi Restaurante", Sesion: sesionCerrada()}))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(popJob(t, rdb, QueueCierre)), &job))
	assert.Equal(t, "cierre", job.Type)
	assert.Equal(t, 0, job.Attempts)

	var payload CierreJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "c1", payload.Sesion.ID)
	assert.Equal(t, int64(15000), payload.Sesion.EfectivoEsperado)
}

func TestProcessJobRetriesThenDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	calls := 0
	pool := NewPool(rdb, map[string]Handler{
		QueueEmail: handlerFunc(func(context.Context, json.RawMessage) error {
			calls++
			return errors.New("smtp down")
		}),
	})
	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "dueno@example.com"}))

	for i := 1; i <= MaxAttempts; i++ {
		pool.processJob(ctx, QueueEmail, popJob(t, rdb, QueueEmail))
		n, err := rdb.LLen(ctx, QueueEmail).Result()
		require.NoError(t, err)
		if i < MaxAttempts {
			assert.Equal(t, int64(1), n, "attempt %d is re-queued", i)
		} else {
			assert.Equal(t, int64(0), n)
		}
	}
	assert.Equal(t, MaxAttempts, calls)

	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(popJob(t, rdb, DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, "email", entry.JobType)
	assert.Equal(t, MaxAttempts, entry.Attempts)
	assert.Equal(t, "smtp down", entry.Reason)
}

func TestProcessJobPermanentFailureSkipsRetries(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	pool := NewPool(rdb, map[string]Handler{
		QueueCierre: handlerFunc(func(context.Context, json.RawMessage) error { return ErrPermanente }),
	})
	require.NoError(t, NewDispatcher(rdb).EnqueueCierre(ctx, CierreJobPayload{}))

	pool.processJob(ctx, QueueCierre, popJob(t, rdb, QueueCierre))

	stats := DLQStats(ctx, rdb)
	assert.Equal(t, int64(1), stats[QueueCierre])
	assert.Equal(t, int64(0), stats[QueueEmail])
}

func TestProcessJobInvalidEnvelope(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	pool := NewPool(rdb, map[string]Handler{QueueEmail: handlerFunc(func(context.Context, json.RawMessage) error { return nil })})

	pool.processJob(ctx, QueueEmail, "{nope")

	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCierreWorkerWritesPDFAndQueuesEmail(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	dir := t.TempDir()
	w := NewCierreWorker(NewDispatcher(rdb), dir, "dueno@example.com")

	raw, err := json.Marshal(CierreJobPayload{Restaurante: "Mi Restaurante", Sesion: sesionCerrada()})
	require.NoError(t, err)
	require.NoError(t, w.Process(ctx, raw))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(popJob(t, rdb, QueueEmail)), &job))
	var email EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &email))
	assert.Equal(t, "dueno@example.com", email.ToEmail)
	assert.Contains(t, email.Body, "Diferencia: $5.00 (advertencia)")

	data, err := os.ReadFile(email.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestCierreWorkerWithoutRecipient(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	w := NewCierreWorker(NewDispatcher(rdb), t.TempDir(), "")

	raw, err := json.Marshal(CierreJobPayload{Restaurante: "Mi Restaurante", Sesion: sesionCerrada()})
	require.NoError(t, err)
	require.NoError(t, w.Process(ctx, raw))

	n, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendReporte(to, _, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestEmailWorker(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	w := NewEmailWorker(sender)

	require.NoError(t, w.Process(ctx, json.RawMessage(`{"to_email":"a@b.c","subject":"x"}`)))
	require.NoError(t, w.Process(ctx, json.RawMessage(`{"to_email":""}`)), "no recipient is skipped")
	assert.Equal(t, []string{"a@b.c"}, sender.sent)

	err := w.Process(ctx, json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrPermanente)

	sender.err = errors.New("boom")
	err = w.Process(ctx, json.RawMessage(`{"to_email":"a@b.c"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanente)
}
