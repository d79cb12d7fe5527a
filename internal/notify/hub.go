package notify

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

const defaultBuffer = 32

// Hub is the in-process fan-out used by the SSE and WebSocket endpoints.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Suscripcion]struct{}
	buffer  int
	dropped atomic.Int64
}

// NewHub creates a hub whose subscribers buffer up to buffer events each.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{subs: make(map[*Suscripcion]struct{}), buffer: buffer}
}

// Suscripcion is one live subscriber. Read from C until it is closed.
type Suscripcion struct {
	c    chan Evento
	hub  *Hub
	once sync.Once
}

func (s *Suscripcion) C() <-chan Evento { return s.c }

// Close detaches the subscriber and closes its channel. Safe to call twice.
func (s *Suscripcion) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.c)
		s.hub.mu.Unlock()
	})
}

// Suscribir registers a new subscriber.
func (h *Hub) Suscribir() *Suscripcion {
	s := &Suscripcion{c: make(chan Evento, h.buffer), hub: h}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Notify delivers to every subscriber with room in its buffer and drops the
// event for the rest.
func (h *Hub) Notify(tipo string, payload any) {
	ev, ok := nuevoEvento(tipo, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		select {
		case s.c <- ev:
		default:
			h.dropped.Add(1)
			log.Warn().Str("tipo", tipo).Msg("notify: subscriber buffer full, event dropped")
		}
	}
}

// Suscriptores returns the number of live subscribers.
func (h *Hub) Suscriptores() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Descartados returns how many deliveries were dropped so far.
func (h *Hub) Descartados() int64 { return h.dropped.Load() }
