package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEstado() *model.Estado {
	stock := int64(7)
	e := model.NuevoEstado(model.Ajustes{NombreRestaurante: "Mi Restaurante", Mesas: 20})
	e.Productos = append(e.Productos, &model.Producto{ID: "p1", Nombre: "Milanesa", Precio: 2500, Stock: &stock, TrackStock: true})
	e.Pedidos = append(e.Pedidos, &model.Pedido{
		ID: "o1", Mesa: 4, Estado: model.PedidoAbierto, Fecha: "2026-10-19",
		Items: []model.ItemPedido{{ProductoID: "p1", PrecioUnitario: 2500, Cantidad: 2}},
		Total: 5000,
	})
	s := model.NuevaSesionCaja("c1", 10000, "Ana", "noche", time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC))
	s.AplicarVenta(5000, []model.Pago{{Metodo: "efectivo", Monto: 5000}})
	e.Cajas = append(e.Cajas, s)
	e.CajaActivaID = "c1"
	return e
}

func TestFileSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "restopos-db.json")
	repo := repository.NewFileSnapshotRepository(path)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "missing file means no snapshot yet")

	require.NoError(t, repo.Save(ctx, sampleEstado()))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.CajaActivaID)
	assert.Equal(t, int64(5000), got.CajaActiva().VentasPorMetodo[model.BucketEfectivo])
	assert.Equal(t, int64(7), *got.Producto("p1").Stock)
	assert.Equal(t, int64(5000), got.Pedido("o1").Total)
}

func TestFileSnapshotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	repo := repository.NewFileSnapshotRepository(path)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(context.Background(), sampleEstado()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "db.json", entries[0].Name())
}

func TestFileSnapshotCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := repository.NewFileSnapshotRepository(path).Load(context.Background())
	assert.Error(t, err)
}

func TestMemorySnapshotRepository(t *testing.T) {
	repo := repository.NewMemorySnapshotRepository()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	e := sampleEstado()
	require.NoError(t, repo.Save(ctx, e))
	// Later mutations of the caller's value never reach the stored copy.
	e.Productos[0].Nombre = "cambiado"

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Milanesa", got.Producto("p1").Nombre)
	assert.Equal(t, 1, repo.Saves)
}
