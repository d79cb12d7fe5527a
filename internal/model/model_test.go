package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizarMetodo(t *testing.T) {
	cases := map[string]Bucket{
		"Efectivo":           BucketEfectivo,
		"pago en EFECTIVO":   BucketEfectivo,
		"Tarjeta débito":     BucketTarjeta,
		"transferencia":      BucketTransferencia,
		"Transfer bancaria":  BucketTransferencia,
		"QR":                 BucketQR,
		"MP":                 BucketQR,
		"mercado pago (mp)":  BucketQR,
		"cheque":             BucketOtros,
		"":                   BucketOtros,
		"tarjeta por qr":     BucketTarjeta,
		"efectivo y tarjeta": BucketEfectivo,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizarMetodo(in), "input %q", in)
	}
}

func TestEstadoPedidoTransiciones(t *testing.T) {
	assert.True(t, PedidoAbierto.PuedePasarA(PedidoCerrado))
	assert.True(t, PedidoAbierto.PuedePasarA(PedidoAnulado))
	assert.True(t, PedidoCerrado.PuedePasarA(PedidoAnulado))
	assert.False(t, PedidoCerrado.PuedePasarA(PedidoAbierto))
	assert.False(t, PedidoAnulado.PuedePasarA(PedidoAbierto))
	assert.False(t, PedidoAnulado.PuedePasarA(PedidoCerrado))
}

func TestPedidoRecalcular(t *testing.T) {
	p := &Pedido{Items: []ItemPedido{
		{ProductoID: "a", PrecioUnitario: 1500, Cantidad: 2},
		{ProductoID: "b", PrecioUnitario: 2000, Cantidad: 1},
	}, Total: 1}
	p.Recalcular()
	assert.Equal(t, int64(5000), p.Total)
}

func TestPedidoPagosParaReversa(t *testing.T) {
	p := &Pedido{Pago: &Pago{Metodo: "efectivo", Monto: 999}}
	assert.Equal(t, []Pago{{Metodo: "efectivo", Monto: 700}}, p.PagosParaReversa(700))

	p.Pagos = []Pago{{Metodo: "qr", Monto: 700}}
	assert.Equal(t, p.Pagos, p.PagosParaReversa(700))

	assert.Nil(t, (&Pedido{}).PagosParaReversa(10))
}

func TestPedidoMontoCobrado(t *testing.T) {
	p := &Pedido{Total: 5000}
	assert.Equal(t, int64(5000), p.MontoCobrado())
	cero := int64(0)
	p.TotalCobrado = &cero
	assert.Equal(t, int64(0), p.MontoCobrado())
}

func TestProductoStock(t *testing.T) {
	p := &Producto{TrackStock: true}
	p.Descontar(3)
	require.NotNil(t, p.Stock)
	assert.Equal(t, int64(0), *p.Stock)
	p.Reponer(4)
	assert.Equal(t, int64(4), *p.Stock)

	sinControl := &Producto{}
	sinControl.Descontar(2)
	assert.Nil(t, sinControl.Stock)
}

func TestSesionCajaVentaYReversa(t *testing.T) {
	s := NuevaSesionCaja("c1", 10000, "Ana", "noche", time.Now())
	pagos := []Pago{{Metodo: "Efectivo", Monto: 3000}, {Metodo: "tarjeta", Monto: 2000}}

	s.AplicarVenta(5000, pagos)
	assert.Equal(t, int64(5000), s.VentasTotal)
	assert.Equal(t, int64(3000), s.VentasPorMetodo[BucketEfectivo])
	assert.Equal(t, int64(2000), s.VentasPorMetodo[BucketTarjeta])
	assert.Equal(t, int64(5000), s.VentasPorMetodo.Total())

	s.RevertirVenta(5000, pagos)
	assert.Equal(t, int64(0), s.VentasTotal)
	assert.Equal(t, int64(0), s.VentasPorMetodo.Total())

	// Reversing again clamps at zero.
	s.RevertirVenta(5000, pagos)
	assert.Equal(t, int64(0), s.VentasTotal)
	assert.Equal(t, int64(0), s.VentasPorMetodo[BucketEfectivo])
}

func TestSesionCajaCerrar(t *testing.T) {
	s := NuevaSesionCaja("c1", 10000, "", "", time.Now())
	s.AplicarVenta(5000, []Pago{{Metodo: "efectivo", Monto: 5000}})
	s.Registrar(MovimientoCaja{Tipo: MovimientoIngreso, Medio: "efectivo", Monto: 700})
	s.Registrar(MovimientoCaja{Tipo: MovimientoEgreso, Medio: "Efectivo", Monto: 200})
	s.Registrar(MovimientoCaja{Tipo: MovimientoEgreso, Medio: "transferencia", Monto: 100})

	s.Cerrar(15600, time.Now())

	assert.True(t, s.Cerrada)
	assert.Equal(t, int64(15500), s.EfectivoEsperado)
	assert.Equal(t, int64(100), s.DiferenciaEfectivo)
	assert.Equal(t, int64(10000+700+5000-300), s.Final)
	assert.Len(t, s.Movimientos, 3)
	assert.Equal(t, int64(300), s.EgresosTotal)
}

func TestEstadoCloneIsDeep(t *testing.T) {
	stock := int64(5)
	e := NuevoEstado(Ajustes{Mesas: 10})
	e.Productos = append(e.Productos, &Producto{ID: "p", Stock: &stock, TrackStock: true})
	e.Pedidos = append(e.Pedidos, &Pedido{ID: "o", Items: []ItemPedido{{ProductoID: "p", Cantidad: 1}}})
	e.Cajas = append(e.Cajas, NuevaSesionCaja("c", 0, "", "", time.Now()))
	e.CajaActivaID = "c"

	c := e.Clone()
	c.Producto("p").Descontar(2)
	c.Pedido("o").Items[0].Cantidad = 9
	c.CajaActiva().AplicarVenta(100, []Pago{{Metodo: "qr", Monto: 100}})

	assert.Equal(t, int64(5), *e.Producto("p").Stock)
	assert.Equal(t, int64(1), e.Pedido("o").Items[0].Cantidad)
	assert.Equal(t, int64(0), e.CajaActiva().VentasTotal)
}

func TestEstadoNormalizarRebuildsActiveSlot(t *testing.T) {
	e := &Estado{Cajas: []*SesionCaja{
		{ID: "old", Cerrada: true},
		{ID: "open"},
	}}
	e.Normalizar()
	assert.Equal(t, "open", e.CajaActivaID)
	assert.NotNil(t, e.Productos)
}
