package model

// Ajustes are the restaurant-wide settings edited from the admin screen.
type Ajustes struct {
	NombreRestaurante string `json:"nombre_restaurante"`
	Mesas             int    `json:"mesas"`
}

// Estado is the full ledger snapshot: everything the store persists in one write.
// CajaActivaID is the single slot pointing at the open session, empty when the
// drawer is closed.
type Estado struct {
	Productos    []*Producto   `json:"productos"`
	Mozos        []*Mozo       `json:"mozos"`
	Pedidos      []*Pedido     `json:"pedidos"`
	Cajas        []*SesionCaja `json:"cajas"`
	CajaActivaID string        `json:"caja_activa_id,omitempty"`
	Ajustes      Ajustes       `json:"ajustes"`
}

// NuevoEstado returns an empty snapshot with default settings.
func NuevoEstado(ajustes Ajustes) *Estado {
	return &Estado{
		Productos: []*Producto{},
		Mozos:     []*Mozo{},
		Pedidos:   []*Pedido{},
		Cajas:     []*SesionCaja{},
		Ajustes:   ajustes,
	}
}

// Clone returns a deep copy; mutations on the copy never reach e.
func (e *Estado) Clone() *Estado {
	c := &Estado{
		Productos:    make([]*Producto, len(e.Productos)),
		Mozos:        make([]*Mozo, len(e.Mozos)),
		Pedidos:      make([]*Pedido, len(e.Pedidos)),
		Cajas:        make([]*SesionCaja, len(e.Cajas)),
		CajaActivaID: e.CajaActivaID,
		Ajustes:      e.Ajustes,
	}
	for i, p := range e.Productos {
		c.Productos[i] = p.clone()
	}
	for i, m := range e.Mozos {
		mc := *m
		c.Mozos[i] = &mc
	}
	for i, p := range e.Pedidos {
		c.Pedidos[i] = p.clone()
	}
	for i, s := range e.Cajas {
		c.Cajas[i] = s.clone()
	}
	return c
}

// Producto looks a product up by id.
func (e *Estado) Producto(id string) *Producto {
	for _, p := range e.Productos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Pedido looks an order up by id.
func (e *Estado) Pedido(id string) *Pedido {
	for _, p := range e.Pedidos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Caja looks a session up by id.
func (e *Estado) Caja(id string) *SesionCaja {
	for _, s := range e.Cajas {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// CajaActiva returns the open session, or nil when the slot is empty.
func (e *Estado) CajaActiva() *SesionCaja {
	if e.CajaActivaID == "" {
		return nil
	}
	s := e.Caja(e.CajaActivaID)
	if s == nil || s.Cerrada {
		return nil
	}
	return s
}

// Normalizar repairs snapshots loaded from disk: nil collections become empty
// and the active-session slot is rebuilt if it was never written.
func (e *Estado) Normalizar() {
	if e.Productos == nil {
		e.Productos = []*Producto{}
	}
	if e.Mozos == nil {
		e.Mozos = []*Mozo{}
	}
	if e.Pedidos == nil {
		e.Pedidos = []*Pedido{}
	}
	if e.Cajas == nil {
		e.Cajas = []*SesionCaja{}
	}
	if e.CajaActiva() == nil {
		e.CajaActivaID = ""
		for _, s := range e.Cajas {
			if !s.Cerrada {
				e.CajaActivaID = s.ID
				break
			}
		}
	}
}
