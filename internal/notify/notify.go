// Package notify fans ledger change events out to live subscribers. Delivery is
// best effort: no acknowledgements, no replay for late subscribers, and a slow
// subscriber loses events instead of stalling the ledger.
package notify

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Event types published by the order ledger and the charge/cancel flow.
const (
	PedidoActualizado = "order-updated"
	PedidoCerrado     = "order-closed"
	PedidoAnulado     = "order-cancelled"
	PedidoListo       = "kitchen-ready"
)

// Evento is one published change. Datos is frozen as JSON at publish time.
type Evento struct {
	Tipo  string          `json:"tipo"`
	Datos json.RawMessage `json:"datos"`
	Fecha time.Time       `json:"fecha"`
}

// Sink receives change notifications. Implementations must not block.
type Sink interface {
	Notify(tipo string, payload any)
}

// Multi forwards every notification to each sink in order.
type Multi []Sink

func (m Multi) Notify(tipo string, payload any) {
	for _, s := range m {
		s.Notify(tipo, payload)
	}
}

func nuevoEvento(tipo string, payload any) (Evento, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("tipo", tipo).Msg("notify: payload not encodable")
		return Evento{}, false
	}
	return Evento{Tipo: tipo, Datos: data, Fecha: time.Now().UTC()}, true
}
