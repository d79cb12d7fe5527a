package service

import (
	"context"

	"restopos/internal/dto"
	"restopos/internal/model"
)

// AjustesService reads and edits the restaurant settings.
type AjustesService interface {
	Obtener(ctx context.Context) model.Ajustes
	Actualizar(ctx context.Context, req dto.AjustesRequest) (model.Ajustes, error)
}

type ajustesService struct {
	libro *Libro
}

func NewAjustesService(libro *Libro) AjustesService {
	return &ajustesService{libro: libro}
}

func (s *ajustesService) Obtener(_ context.Context) model.Ajustes {
	return s.libro.Leer().Ajustes
}

// Actualizar merges the given fields over the stored settings.
func (s *ajustesService) Actualizar(ctx context.Context, req dto.AjustesRequest) (model.Ajustes, error) {
	var out model.Ajustes
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		if req.NombreRestaurante != nil {
			e.Ajustes.NombreRestaurante = *req.NombreRestaurante
		}
		if req.Mesas != nil {
			e.Ajustes.Mesas = *req.Mesas
		}
		out = e.Ajustes
		return nil
	})
	return out, err
}
