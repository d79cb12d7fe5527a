package dto

import (
	"time"

	"restopos/internal/money"
)

// ─── Filter ─────────────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /api/orders.
type PedidoFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=abierto cerrado anulado"`
	Fecha  string `form:"fecha"  validate:"omitempty,datetime=2006-01-02"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemPedidoRequest is stored as sent once coerced to integers; negative
// prices or quantities are the caller's business.
type ItemPedidoRequest struct {
	ProductoID     string    `json:"producto_id"     validate:"max=100"`
	Nombre         string    `json:"nombre"          validate:"max=200"`
	PrecioUnitario money.Int `json:"precio_unitario"`
	Cantidad       money.Int `json:"cantidad"`
}

type PagoRequest struct {
	Metodo string    `json:"metodo" validate:"max=50"`
	Monto  money.Int `json:"monto"  validate:"gte=0"`
}

// GuardarPedidoRequest is the create-or-replace body of POST /api/orders.
// Lifecycle fields (estado, pagos, cierre...) are not accepted here; they are
// only written by charge and cancel.
type GuardarPedidoRequest struct {
	ID        string              `json:"id"`
	Mesa      int                 `json:"mesa"`
	Tipo      string              `json:"tipo"      validate:"max=30"`
	Workflow  string              `json:"workflow"  validate:"max=30"`
	Items     []ItemPedidoRequest `json:"items"     validate:"dive"`
	Descuento money.Int           `json:"descuento"`
	Mozo      string              `json:"mozo"      validate:"max=100"`
	Inicio    *time.Time          `json:"inicio"`
	Fecha     string              `json:"fecha"     validate:"max=30"`
}

// ActualizarPedidoRequest is the partial update of PUT /api/orders/:id.
// Absent fields keep their stored value.
type ActualizarPedidoRequest struct {
	Mesa      *int                 `json:"mesa"`
	Tipo      *string              `json:"tipo"      validate:"omitempty,max=30"`
	Workflow  *string              `json:"workflow"  validate:"omitempty,max=30"`
	Items     *[]ItemPedidoRequest `json:"items"     validate:"omitempty,dive"`
	Descuento *money.Int           `json:"descuento"`
	Mozo      *string              `json:"mozo"      validate:"omitempty,max=100"`
}

// CobrarPedidoRequest is the body of POST /api/orders/:id/charge. Older
// clients send a single pago instead of the pagos list.
type CobrarPedidoRequest struct {
	Pagos     []PagoRequest `json:"pagos"     validate:"dive"`
	Pago      *PagoRequest  `json:"pago"`
	Descuento money.Int     `json:"descuento" validate:"gte=0"`
}
