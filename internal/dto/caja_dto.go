package dto

import "restopos/internal/money"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbrirCajaRequest accepts the opening float either in cents (apertura) or as
// typed pesos (apertura_pesos, "1500,50"). apertura_pesos wins when present.
type AbrirCajaRequest struct {
	Apertura      money.Int   `json:"apertura"       validate:"gte=0"`
	AperturaPesos money.Pesos `json:"apertura_pesos"`
	Cajero        string      `json:"cajero"         validate:"max=100"`
	Turno         string      `json:"turno"          validate:"max=50"`
}

// MontoApertura resolves the opening amount in cents.
func (r AbrirCajaRequest) MontoApertura() int64 {
	if r.AperturaPesos != "" {
		return r.AperturaPesos.Cents()
	}
	return r.Apertura.Int64()
}

type MovimientoCajaRequest struct {
	Tipo        string    `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Medio       string    `json:"medio"       validate:"max=50"`
	Descripcion string    `json:"descripcion" validate:"max=200"`
	Monto       money.Int `json:"monto"       validate:"gt=0"`
}

type CerrarCajaRequest struct {
	Conteo        money.Int `json:"conteo"        validate:"gte=0"`
	Observaciones *string   `json:"observaciones" validate:"omitempty,max=500"`
}

// HistorialCajaFilter is bound from the query string of GET /api/cash/history.
type HistorialCajaFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}
