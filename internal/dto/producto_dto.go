package dto

import "restopos/internal/money"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductoRequest creates a product, or replaces it when ID matches one.
type ProductoRequest struct {
	ID         string     `json:"id"`
	Nombre     string     `json:"nombre"      validate:"required,min=1,max=200"`
	Precio     money.Int  `json:"precio"      validate:"gte=0"`
	Stock      *money.Int `json:"stock"`
	TrackStock bool       `json:"track_stock"`
	Categoria  string     `json:"categoria"   validate:"max=100"`
}

type MozoRequest struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre" validate:"required,min=1,max=100"`
	// Activo defaults to true when omitted.
	Activo *bool `json:"activo"`
}
