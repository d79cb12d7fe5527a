package service

import (
	"context"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/notify"
)

// PedidoService is the order ledger. Charging and cancelling live in
// CobroService because they also touch the cash session and stock.
type PedidoService interface {
	Guardar(ctx context.Context, req dto.GuardarPedidoRequest) (*model.Pedido, error)
	Actualizar(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) []*model.Pedido
	Obtener(ctx context.Context, id string) (*model.Pedido, error)
}

type pedidoService struct {
	libro *Libro
	sink  notify.Sink
}

func NewPedidoService(libro *Libro, sink notify.Sink) PedidoService {
	return &pedidoService{libro: libro, sink: sink}
}

// ── Guardar ───────────────────────────────────────────────────────────────────
// Create-or-replace. A new order always starts abierto; replacing an existing
// one keeps its lifecycle fields, which only charge and cancel may change. The
// items and discount of a charged or cancelled order are frozen too, so a
// later cancel restocks exactly what the charge took.

func (s *pedidoService) Guardar(ctx context.Context, req dto.GuardarPedidoRequest) (*model.Pedido, error) {
	var out *model.Pedido
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		now := s.libro.ahora()
		p := &model.Pedido{
			ID:        req.ID,
			Mesa:      req.Mesa,
			Tipo:      req.Tipo,
			Estado:    model.PedidoAbierto,
			Workflow:  req.Workflow,
			Items:     itemsDesdeRequest(req.Items),
			Descuento: req.Descuento.Int64(),
			Pagos:     []model.Pago{},
			Mozo:      req.Mozo,
			Fecha:     req.Fecha,
		}
		if req.Inicio != nil {
			p.Inicio = *req.Inicio
		}
		if p.ID == "" {
			p.ID = s.libro.nuevoID()
		}

		if cur := e.Pedido(p.ID); cur != nil {
			conservarCicloDeVida(p, cur)
			if p.Inicio.IsZero() {
				p.Inicio = cur.Inicio
			}
			if p.Fecha == "" {
				p.Fecha = cur.Fecha
			}
		}
		if p.Inicio.IsZero() {
			p.Inicio = now
		}
		if p.Fecha == "" {
			p.Fecha = hoy(now)
		}
		p.Recalcular()

		reemplazarPedido(e, p)
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.sink.Notify(notify.PedidoActualizado, eventoPedido{ID: out.ID, Estado: out.Estado})
	return out, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *pedidoService) Actualizar(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error) {
	var out *model.Pedido
	listo := false
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		p := e.Pedido(id)
		if p == nil {
			return apierror.NotFound("pedido %s no encontrado", id)
		}
		abierto := p.Estado == model.PedidoAbierto
		eraListo := p.Listo()
		if req.Mesa != nil {
			p.Mesa = *req.Mesa
		}
		if req.Tipo != nil {
			p.Tipo = *req.Tipo
		}
		if req.Workflow != nil {
			p.Workflow = *req.Workflow
		}
		if req.Items != nil && abierto {
			p.Items = itemsDesdeRequest(*req.Items)
		}
		if req.Descuento != nil && abierto {
			p.Descuento = req.Descuento.Int64()
		}
		if req.Mozo != nil {
			p.Mozo = *req.Mozo
		}
		p.Recalcular()
		listo = !eraListo && p.Listo()
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if listo {
		s.sink.Notify(notify.PedidoListo, eventoCocina{ID: out.ID, Mesa: out.Mesa, Mozo: out.Mozo, Items: out.Items})
	}
	s.sink.Notify(notify.PedidoActualizado, eventoPedido{ID: out.ID, Estado: out.Estado})
	return out, nil
}

// ── Listar / Obtener ──────────────────────────────────────────────────────────

// Listar returns every order matching the filter, in insertion order.
func (s *pedidoService) Listar(_ context.Context, filter dto.PedidoFilter) []*model.Pedido {
	e := s.libro.Leer()
	out := make([]*model.Pedido, 0, len(e.Pedidos))
	for _, p := range e.Pedidos {
		if filter.Estado != "" && string(p.Estado) != filter.Estado {
			continue
		}
		if filter.Fecha != "" && p.Fecha != filter.Fecha {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *pedidoService) Obtener(_ context.Context, id string) (*model.Pedido, error) {
	p := s.libro.Leer().Pedido(id)
	if p == nil {
		return nil, apierror.NotFound("pedido %s no encontrado", id)
	}
	return p, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type eventoPedido struct {
	ID     string             `json:"id"`
	Estado model.EstadoPedido `json:"estado"`
}

type eventoCocina struct {
	ID    string             `json:"id"`
	Mesa  int                `json:"mesa"`
	Mozo  string             `json:"mozo"`
	Items []model.ItemPedido `json:"items"`
}

type eventoID struct {
	ID string `json:"id"`
}

func itemsDesdeRequest(in []dto.ItemPedidoRequest) []model.ItemPedido {
	items := make([]model.ItemPedido, 0, len(in))
	for _, it := range in {
		items = append(items, model.ItemPedido{
			ProductoID:     it.ProductoID,
			Nombre:         it.Nombre,
			PrecioUnitario: it.PrecioUnitario.Int64(),
			Cantidad:       it.Cantidad.Int64(),
		})
	}
	return items
}

func conservarCicloDeVida(p, cur *model.Pedido) {
	p.Estado = cur.Estado
	p.TotalCobrado = cur.TotalCobrado
	p.Pagos = cur.Pagos
	p.Pago = cur.Pago
	p.Cierre = cur.Cierre
	p.AnuladoEn = cur.AnuladoEn
	p.SesionCajaID = cur.SesionCajaID
	if cur.Estado != model.PedidoAbierto {
		p.Items = cur.Items
		p.Descuento = cur.Descuento
	}
}

func reemplazarPedido(e *model.Estado, p *model.Pedido) {
	for i, cur := range e.Pedidos {
		if cur.ID == p.ID {
			e.Pedidos[i] = p
			return
		}
	}
	e.Pedidos = append(e.Pedidos, p)
}
