package model

// Producto is a catalog entry. Stock is nil when never counted; when TrackStock
// is set, charging and cancelling orders move it and it never drops below zero.
type Producto struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Precio     int64  `json:"precio"`
	Stock      *int64 `json:"stock,omitempty"`
	TrackStock bool   `json:"track_stock"`
	Categoria  string `json:"categoria"`
}

// StockActual returns the stock count, treating an absent value as zero.
func (p *Producto) StockActual() int64 {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

// Descontar removes qty units, flooring at zero. No-op unless TrackStock.
func (p *Producto) Descontar(qty int64) {
	if !p.TrackStock {
		return
	}
	n := p.StockActual() - qty
	if n < 0 {
		n = 0
	}
	p.Stock = &n
}

// Reponer returns qty units to stock. No-op unless TrackStock.
func (p *Producto) Reponer(qty int64) {
	if !p.TrackStock {
		return
	}
	n := p.StockActual() + qty
	p.Stock = &n
}

func (p *Producto) clone() *Producto {
	c := *p
	if p.Stock != nil {
		s := *p.Stock
		c.Stock = &s
	}
	return &c
}

// Mozo is a member of the floor staff. Orders reference mozos by name only.
type Mozo struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}
