package model

import (
	"time"

	"restopos/internal/money"
)

// TipoMovimiento: "ingreso" | "egreso"
type TipoMovimiento string

const (
	MovimientoIngreso TipoMovimiento = "ingreso"
	MovimientoEgreso  TipoMovimiento = "egreso"
)

// MovimientoCaja is a manual cash-in or cash-out. Movements are append-only.
type MovimientoCaja struct {
	Fecha       time.Time      `json:"fecha"`
	Tipo        TipoMovimiento `json:"tipo"`
	Medio       string         `json:"medio"`
	Descripcion string         `json:"descripcion"`
	Monto       int64          `json:"monto"`
}

// SesionCaja is one cash-drawer accounting period, from apertura to cierre.
// Once Cerrada it is sealed: the close figures are never recomputed.
type SesionCaja struct {
	ID          string           `json:"id"`
	Apertura    int64            `json:"apertura"`
	AperturaEn  time.Time        `json:"apertura_en"`
	Cajero      string           `json:"cajero"`
	Turno       string           `json:"turno"`
	Movimientos []MovimientoCaja `json:"movimientos"`

	VentasPorMetodo   PorMetodo `json:"ventas_por_metodo"`
	IngresosPorMetodo PorMetodo `json:"ingresos_por_metodo"`
	EgresosPorMetodo  PorMetodo `json:"egresos_por_metodo"`
	VentasTotal       int64     `json:"ventas_total"`
	IngresosTotal     int64     `json:"ingresos_total"`
	EgresosTotal      int64     `json:"egresos_total"`

	Cerrada            bool       `json:"cerrada"`
	CierreEn           *time.Time `json:"cierre_en,omitempty"`
	Conteo             int64      `json:"conteo"`
	EfectivoEsperado   int64      `json:"efectivo_esperado"`
	DiferenciaEfectivo int64      `json:"diferencia_efectivo"`
	Final              int64      `json:"final"`
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio string  `json:"clasificacion_desvio,omitempty"`
	Observaciones       *string `json:"observaciones,omitempty"`
}

// NuevaSesionCaja returns an open session with every total at zero.
func NuevaSesionCaja(id string, apertura int64, cajero, turno string, now time.Time) *SesionCaja {
	return &SesionCaja{
		ID:                id,
		Apertura:          apertura,
		AperturaEn:        now,
		Cajero:            cajero,
		Turno:             turno,
		Movimientos:       []MovimientoCaja{},
		VentasPorMetodo:   NuevoPorMetodo(),
		IngresosPorMetodo: NuevoPorMetodo(),
		EgresosPorMetodo:  NuevoPorMetodo(),
	}
}

// FechaApertura returns the opening date as YYYY-MM-DD.
func (s *SesionCaja) FechaApertura() string {
	return s.AperturaEn.Format("2006-01-02")
}

// Registrar appends a manual movement and updates its bucket and kind total.
// Anything that is not an ingreso counts as an egreso.
func (s *SesionCaja) Registrar(m MovimientoCaja) {
	s.asegurarBuckets()
	s.Movimientos = append(s.Movimientos, m)
	b := NormalizarMetodo(m.Medio)
	if m.Tipo == MovimientoIngreso {
		s.IngresosTotal += m.Monto
		s.IngresosPorMetodo[b] += m.Monto
		return
	}
	s.EgresosTotal += m.Monto
	s.EgresosPorMetodo[b] += m.Monto
}

// AplicarVenta books a charged sale: VentasTotal grows by amount and each
// payment lands in its bucket. The caller guarantees the payments sum to amount.
func (s *SesionCaja) AplicarVenta(amount int64, pagos []Pago) {
	s.asegurarBuckets()
	s.VentasTotal += amount
	for _, p := range pagos {
		s.VentasPorMetodo[NormalizarMetodo(p.Metodo)] += p.Monto
	}
}

// RevertirVenta undoes AplicarVenta. Totals and buckets never go below zero.
func (s *SesionCaja) RevertirVenta(amount int64, pagos []Pago) {
	s.asegurarBuckets()
	s.VentasTotal = money.SubClamped(s.VentasTotal, amount)
	for _, p := range pagos {
		b := NormalizarMetodo(p.Metodo)
		s.VentasPorMetodo[b] = money.SubClamped(s.VentasPorMetodo[b], p.Monto)
	}
}

// EfectivoEsperadoAhora computes the cash that should be in the drawer:
// apertura + cash ingresos + cash sales − cash egresos.
func (s *SesionCaja) EfectivoEsperadoAhora() int64 {
	return s.Apertura +
		s.IngresosPorMetodo[BucketEfectivo] +
		s.VentasPorMetodo[BucketEfectivo] -
		s.EgresosPorMetodo[BucketEfectivo]
}

// FinalAhora computes apertura + ingresos + ventas − egresos across all buckets.
func (s *SesionCaja) FinalAhora() int64 {
	return s.Apertura + s.IngresosTotal + s.VentasTotal - s.EgresosTotal
}

// Cerrar seals the session against the counted cash.
func (s *SesionCaja) Cerrar(conteo int64, now time.Time) {
	s.asegurarBuckets()
	s.Conteo = conteo
	s.EfectivoEsperado = s.EfectivoEsperadoAhora()
	s.DiferenciaEfectivo = conteo - s.EfectivoEsperado
	s.Final = s.FinalAhora()
	s.Cerrada = true
	s.CierreEn = &now
}

// asegurarBuckets fills maps missing from snapshots written by older versions.
func (s *SesionCaja) asegurarBuckets() {
	if s.VentasPorMetodo == nil {
		s.VentasPorMetodo = NuevoPorMetodo()
	}
	if s.IngresosPorMetodo == nil {
		s.IngresosPorMetodo = NuevoPorMetodo()
	}
	if s.EgresosPorMetodo == nil {
		s.EgresosPorMetodo = NuevoPorMetodo()
	}
}

func (s *SesionCaja) clone() *SesionCaja {
	c := *s
	c.Movimientos = append([]MovimientoCaja(nil), s.Movimientos...)
	c.VentasPorMetodo = s.VentasPorMetodo.clone()
	c.IngresosPorMetodo = s.IngresosPorMetodo.clone()
	c.EgresosPorMetodo = s.EgresosPorMetodo.clone()
	if s.CierreEn != nil {
		t := *s.CierreEn
		c.CierreEn = &t
	}
	if s.Observaciones != nil {
		o := *s.Observaciones
		c.Observaciones = &o
	}
	return &c
}
