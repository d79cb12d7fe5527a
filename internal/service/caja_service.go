package service

import (
	"context"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CajaService is the cash session ledger. At most one session is open at a
// time; sales reach it through CobroService.
type CajaService interface {
	Activa(ctx context.Context) *model.SesionCaja
	Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*model.SesionCaja, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoCajaRequest) (*model.MovimientoCaja, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*model.SesionCaja, error)
	Historial(ctx context.Context, filter dto.HistorialCajaFilter) []*model.SesionCaja
	Obtener(ctx context.Context, id string) (*model.SesionCaja, error)
}

type cajaService struct {
	libro      *Libro
	dispatcher *worker.Dispatcher
}

// NewCajaService wires the cash ledger. dispatcher may be nil, in which case
// closing a session does not queue the close-of-day report.
func NewCajaService(libro *Libro, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{libro: libro, dispatcher: dispatcher}
}

func (s *cajaService) Activa(_ context.Context) *model.SesionCaja {
	return s.libro.Leer().CajaActiva()
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// The open check and the slot assignment run in the same transaction, so two
// concurrent opens can never both succeed.

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*model.SesionCaja, error) {
	var out *model.SesionCaja
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		if e.CajaActiva() != nil {
			return apierror.Conflict("ya existe una caja abierta")
		}
		sesion := model.NuevaSesionCaja(s.libro.nuevoID(), req.MontoApertura(), req.Cajero, req.Turno, s.libro.ahora())
		e.Cajas = append(e.Cajas, sesion)
		e.CajaActivaID = sesion.ID
		out = sesion
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("sesion_caja_id", out.ID).Int64("apertura", out.Apertura).Str("cajero", out.Cajero).Msg("caja abierta")
	return out, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Ingreso / egreso manual. Movements are append-only.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoCajaRequest) (*model.MovimientoCaja, error) {
	var out model.MovimientoCaja
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		sesion := e.CajaActiva()
		if sesion == nil {
			return apierror.Precondition("no hay caja abierta")
		}
		out = model.MovimientoCaja{
			Fecha:       s.libro.ahora(),
			Tipo:        model.TipoMovimiento(req.Tipo),
			Medio:       req.Medio,
			Descripcion: req.Descripcion,
			Monto:       req.Monto.Int64(),
		}
		sesion.Registrar(out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Seals the active session against the counted cash and frees the slot. The
// variance classification is informational: a critical variance still closes.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*model.SesionCaja, error) {
	var out *model.SesionCaja
	var restaurante string
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		sesion := e.CajaActiva()
		if sesion == nil {
			return apierror.Precondition("no hay caja abierta")
		}
		sesion.Cerrar(req.Conteo.Int64(), s.libro.ahora())
		sesion.ClasificacionDesvio = clasificarDesvio(sesion.DiferenciaEfectivo, sesion.EfectivoEsperado)
		sesion.Observaciones = req.Observaciones
		e.CajaActivaID = ""
		out = sesion
		restaurante = e.Ajustes.NombreRestaurante
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sesion_caja_id", out.ID).
		Int64("esperado", out.EfectivoEsperado).
		Int64("diferencia", out.DiferenciaEfectivo).
		Str("clasificacion", out.ClasificacionDesvio).
		Msg("caja cerrada")

	// Close-of-day report (best-effort, fire & forget)
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCierre(ctx, worker.CierreJobPayload{Restaurante: restaurante, Sesion: *out}); err != nil {
			log.Warn().Err(err).Str("sesion_caja_id", out.ID).Msg("no se pudo encolar el reporte de cierre")
		}
	}
	return out, nil
}

// ── Historial / Obtener ───────────────────────────────────────────────────────

// Historial returns closed sessions whose opening date falls in [desde, hasta].
// Empty bounds are open.
func (s *cajaService) Historial(_ context.Context, filter dto.HistorialCajaFilter) []*model.SesionCaja {
	e := s.libro.Leer()
	out := make([]*model.SesionCaja, 0)
	for _, c := range e.Cajas {
		if !c.Cerrada {
			continue
		}
		d := c.FechaApertura()
		if filter.Desde != "" && d < filter.Desde {
			continue
		}
		if filter.Hasta != "" && d > filter.Hasta {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *cajaService) Obtener(_ context.Context, id string) (*model.SesionCaja, error) {
	c := s.libro.Leer().Caja(id)
	if c == nil {
		return nil, apierror.NotFound("sesión de caja %s no encontrada", id)
	}
	return c, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// clasificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5% of expected cash.
// With nothing expected, any difference is critical.
func clasificarDesvio(diferencia, esperado int64) string {
	if esperado == 0 {
		if diferencia == 0 {
			return "normal"
		}
		return "critico"
	}
	pct := decimal.NewFromInt(diferencia).
		Div(decimal.NewFromInt(esperado)).
		Mul(decimal.NewFromInt(100)).
		Abs()
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case pct.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}
