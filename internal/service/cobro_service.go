package service

import (
	"context"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/money"
	"restopos/internal/notify"

	"github.com/rs/zerolog/log"
)

// CobroService charges and cancels orders. Each call is one ledger
// transaction spanning the order, the cash session and product stock.
type CobroService interface {
	Cobrar(ctx context.Context, id string, req dto.CobrarPedidoRequest) (*model.Pedido, error)
	Anular(ctx context.Context, id string) (*model.Pedido, error)
}

type cobroService struct {
	libro *Libro
	sink  notify.Sink
}

func NewCobroService(libro *Libro, sink notify.Sink) CobroService {
	return &cobroService{libro: libro, sink: sink}
}

// ── Cobrar ────────────────────────────────────────────────────────────────────
//   1. Order must exist and be abierto
//   2. neto = max(0, Σ items − descuento); payments must add up to neto exactly
//   3. Book the sale on the active session, if there is one
//   4. Decrement tracked stock, floored at zero
//   5. Close the order

func (s *cobroService) Cobrar(ctx context.Context, id string, req dto.CobrarPedidoRequest) (*model.Pedido, error) {
	pagos := pagosDesdeRequest(req)
	descuento := money.Max0(req.Descuento.Int64())

	var out *model.Pedido
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		p := e.Pedido(id)
		if p == nil {
			return apierror.NotFound("pedido %s no encontrado", id)
		}
		if p.Estado != model.PedidoAbierto {
			return apierror.Conflict("el pedido %s está %s y no puede cobrarse", id, p.Estado)
		}

		p.Recalcular()
		neto := money.SubClamped(p.Total, descuento)
		if suma := model.SumarPagos(pagos); suma != neto {
			return apierror.Conflict("la suma de pagos (%s) no coincide con el total a cobrar (%s)",
				money.Format(suma), money.Format(neto))
		}

		var sesionID *string
		if caja := e.CajaActiva(); caja != nil {
			caja.AplicarVenta(neto, pagos)
			sid := caja.ID
			sesionID = &sid
		}

		for _, it := range p.Items {
			if prod := e.Producto(it.ProductoID); prod != nil {
				prod.Descontar(it.Cantidad)
			}
		}

		now := s.libro.ahora()
		p.Estado = model.PedidoCerrado
		p.Descuento = descuento
		p.TotalCobrado = &neto
		p.Pagos = pagos
		p.Cierre = &now
		p.SesionCajaID = sesionID
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.SesionCajaID == nil {
		log.Warn().Str("pedido_id", out.ID).Msg("pedido cobrado sin caja abierta")
	}
	s.sink.Notify(notify.PedidoCerrado, eventoID{ID: out.ID})
	return out, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────
// A charged order reverses its sale on the session it was booked on (falling
// back to the active one) and returns its stock. An open order is just marked
// anulado. Cancelling an anulado order again changes nothing.

func (s *cobroService) Anular(ctx context.Context, id string) (*model.Pedido, error) {
	var out *model.Pedido
	yaAnulado := false
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		p := e.Pedido(id)
		if p == nil {
			return apierror.NotFound("pedido %s no encontrado", id)
		}
		if p.Estado == model.PedidoAnulado {
			out = p
			yaAnulado = true
			return errSinCambios
		}

		if p.Estado == model.PedidoCerrado {
			monto := p.MontoCobrado()
			if caja := sesionDelCobro(e, p); caja != nil {
				caja.RevertirVenta(monto, p.PagosParaReversa(monto))
			}
			for _, it := range p.Items {
				if prod := e.Producto(it.ProductoID); prod != nil {
					prod.Reponer(it.Cantidad)
				}
			}
		}

		now := s.libro.ahora()
		p.Estado = model.PedidoAnulado
		p.AnuladoEn = &now
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if yaAnulado {
		return out, nil
	}
	s.sink.Notify(notify.PedidoAnulado, eventoID{ID: out.ID})
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sesionDelCobro(e *model.Estado, p *model.Pedido) *model.SesionCaja {
	if p.SesionCajaID != nil {
		if c := e.Caja(*p.SesionCajaID); c != nil {
			return c
		}
	}
	return e.CajaActiva()
}

func pagosDesdeRequest(req dto.CobrarPedidoRequest) []model.Pago {
	in := req.Pagos
	if len(in) == 0 && req.Pago != nil {
		in = []dto.PagoRequest{*req.Pago}
	}
	pagos := make([]model.Pago, 0, len(in))
	for _, pg := range in {
		pagos = append(pagos, model.Pago{Metodo: pg.Metodo, Monto: pg.Monto.Int64()})
	}
	return pagos
}
