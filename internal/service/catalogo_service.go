package service

import (
	"context"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/model"
	"restopos/internal/money"
)

// CatalogoService manages products and floor staff.
type CatalogoService interface {
	ListarProductos(ctx context.Context) []*model.Producto
	GuardarProducto(ctx context.Context, req dto.ProductoRequest) (*model.Producto, error)
	EliminarProducto(ctx context.Context, id string) error

	ListarMozos(ctx context.Context) []*model.Mozo
	GuardarMozo(ctx context.Context, req dto.MozoRequest) (*model.Mozo, error)
	EliminarMozo(ctx context.Context, id string) error
}

type catalogoService struct {
	libro *Libro
}

func NewCatalogoService(libro *Libro) CatalogoService {
	return &catalogoService{libro: libro}
}

// ── Productos ─────────────────────────────────────────────────────────────────

func (s *catalogoService) ListarProductos(_ context.Context) []*model.Producto {
	return append([]*model.Producto{}, s.libro.Leer().Productos...)
}

// GuardarProducto inserts, or replaces the product with the same id. Tracked
// stock is floored at zero on the way in; a replace without stock keeps the
// current count.
func (s *catalogoService) GuardarProducto(ctx context.Context, req dto.ProductoRequest) (*model.Producto, error) {
	var out *model.Producto
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		p := &model.Producto{
			ID:         req.ID,
			Nombre:     req.Nombre,
			Precio:     req.Precio.Int64(),
			TrackStock: req.TrackStock,
			Categoria:  req.Categoria,
		}
		if p.ID == "" {
			p.ID = s.libro.nuevoID()
		}
		var stock *int64
		if req.Stock != nil {
			n := req.Stock.Int64()
			stock = &n
		} else if cur := e.Producto(p.ID); cur != nil && cur.Stock != nil {
			n := *cur.Stock
			stock = &n
		}
		if stock != nil && p.TrackStock {
			*stock = money.Max0(*stock)
		}
		p.Stock = stock
		reemplazado := false
		for i, cur := range e.Productos {
			if cur.ID == p.ID {
				e.Productos[i] = p
				reemplazado = true
				break
			}
		}
		if !reemplazado {
			e.Productos = append(e.Productos, p)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogoService) EliminarProducto(ctx context.Context, id string) error {
	return s.libro.Tx(ctx, func(e *model.Estado) error {
		for i, p := range e.Productos {
			if p.ID == id {
				e.Productos = append(e.Productos[:i], e.Productos[i+1:]...)
				return nil
			}
		}
		return apierror.NotFound("producto %s no encontrado", id)
	})
}

// ── Mozos ─────────────────────────────────────────────────────────────────────

func (s *catalogoService) ListarMozos(_ context.Context) []*model.Mozo {
	return append([]*model.Mozo{}, s.libro.Leer().Mozos...)
}

func (s *catalogoService) GuardarMozo(ctx context.Context, req dto.MozoRequest) (*model.Mozo, error) {
	var out *model.Mozo
	err := s.libro.Tx(ctx, func(e *model.Estado) error {
		m := &model.Mozo{ID: req.ID, Nombre: req.Nombre, Activo: true}
		if req.Activo != nil {
			m.Activo = *req.Activo
		}
		if m.ID == "" {
			m.ID = s.libro.nuevoID()
		}
		for i, cur := range e.Mozos {
			if cur.ID == m.ID {
				e.Mozos[i] = m
				out = m
				return nil
			}
		}
		e.Mozos = append(e.Mozos, m)
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogoService) EliminarMozo(ctx context.Context, id string) error {
	return s.libro.Tx(ctx, func(e *model.Estado) error {
		for i, m := range e.Mozos {
			if m.ID == id {
				e.Mozos = append(e.Mozos[:i], e.Mozos[i+1:]...)
				return nil
			}
		}
		return apierror.NotFound("mozo %s no encontrado", id)
	})
}
