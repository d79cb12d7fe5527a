package model

import (
	"strings"
	"time"
)

// EstadoPedido: "abierto" | "cerrado" | "anulado"
type EstadoPedido string

const (
	PedidoAbierto EstadoPedido = "abierto"
	PedidoCerrado EstadoPedido = "cerrado"
	PedidoAnulado EstadoPedido = "anulado"
)

// PuedePasarA reports whether the lifecycle allows moving from e to next.
// Allowed: abierto→cerrado, abierto→anulado, cerrado→anulado.
func (e EstadoPedido) PuedePasarA(next EstadoPedido) bool {
	switch e {
	case PedidoAbierto:
		return next == PedidoCerrado || next == PedidoAnulado
	case PedidoCerrado:
		return next == PedidoAnulado
	default:
		return false
	}
}

// ItemPedido is a line of an order. PrecioUnitario is captured when the line is
// added and is never re-read from the catalog.
type ItemPedido struct {
	ProductoID     string `json:"producto_id"`
	Nombre         string `json:"nombre,omitempty"`
	PrecioUnitario int64  `json:"precio_unitario"`
	Cantidad       int64  `json:"cantidad"`
}

// Subtotal returns PrecioUnitario × Cantidad.
func (it ItemPedido) Subtotal() int64 {
	return it.PrecioUnitario * it.Cantidad
}

// Pedido is a table or counter order.
type Pedido struct {
	ID       string       `json:"id"`
	Mesa     int          `json:"mesa"`
	Tipo     string       `json:"tipo"`
	Estado   EstadoPedido `json:"estado"`
	Workflow string       `json:"workflow,omitempty"`
	Items    []ItemPedido `json:"items"`
	// Total is derived from Items on every write.
	Total     int64 `json:"total"`
	Descuento int64 `json:"descuento"`
	// TotalCobrado is nil until the order is charged.
	TotalCobrado *int64 `json:"total_cobrado,omitempty"`
	Pagos        []Pago `json:"pagos"`
	// Pago is the single-payment field written by older clients.
	Pago         *Pago      `json:"pago,omitempty"`
	Mozo         string     `json:"mozo"`
	Inicio       time.Time  `json:"inicio"`
	Cierre       *time.Time `json:"cierre,omitempty"`
	Fecha        string     `json:"fecha"`
	SesionCajaID *string    `json:"sesion_caja_id,omitempty"`
	AnuladoEn    *time.Time `json:"anulado_en,omitempty"`
}

// CalcularTotal sums the item subtotals.
func CalcularTotal(items []ItemPedido) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// Recalcular refreshes Total from Items.
func (p *Pedido) Recalcular() {
	p.Total = CalcularTotal(p.Items)
}

// Listo reports whether the kitchen marked the order as ready.
func (p *Pedido) Listo() bool {
	w := strings.ToLower(strings.TrimSpace(p.Workflow))
	return w == "ready" || w == "listo"
}

// MontoCobrado returns what was charged, falling back to Total for orders
// that never recorded a charged amount.
func (p *Pedido) MontoCobrado() int64 {
	if p.TotalCobrado != nil {
		return *p.TotalCobrado
	}
	return p.Total
}

// PagosParaReversa returns the payments a cancellation must reverse: Pagos if
// present, otherwise one synthesized from the legacy Pago field for amount.
func (p *Pedido) PagosParaReversa(amount int64) []Pago {
	if len(p.Pagos) > 0 {
		return p.Pagos
	}
	if p.Pago != nil {
		return []Pago{{Metodo: p.Pago.Metodo, Monto: amount}}
	}
	return nil
}

func (p *Pedido) clone() *Pedido {
	c := *p
	c.Items = append([]ItemPedido(nil), p.Items...)
	c.Pagos = append([]Pago(nil), p.Pagos...)
	if p.Pago != nil {
		pg := *p.Pago
		c.Pago = &pg
	}
	if p.TotalCobrado != nil {
		v := *p.TotalCobrado
		c.TotalCobrado = &v
	}
	if p.Cierre != nil {
		t := *p.Cierre
		c.Cierre = &t
	}
	if p.AnuladoEn != nil {
		t := *p.AnuladoEn
		c.AnuladoEn = &t
	}
	if p.SesionCajaID != nil {
		s := *p.SesionCajaID
		c.SesionCajaID = &s
	}
	return &c
}
