package router_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restopos/internal/config"
	"restopos/internal/handler"
	"restopos/internal/model"
	"restopos/internal/notify"
	"restopos/internal/repository"
	"restopos/internal/router"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return strings.NewReader(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = jsonBody(t, body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status %d, want %d: %s", resp.StatusCode, status, b)
	}
}

type detail struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// ── Test env ─────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	hub    *notify.Hub
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		AdminPIN:           "1234",
		CORSOrigins:        "*",
	}

	libro, err := service.NuevoLibro(ctx, repository.NewMemorySnapshotRepository(),
		model.Ajustes{NombreRestaurante: "Mi Restaurante", Mesas: 20})
	require.NoError(t, err)

	hub := notify.NewHub(16)
	engine := router.New(cfg, router.Deps{
		Auth:     service.NewAuthService(cfg),
		Ajustes:  service.NewAjustesService(libro),
		Catalogo: service.NewCatalogoService(libro),
		Pedidos:  service.NewPedidoService(libro, hub),
		Cobro:    service.NewCobroService(libro, hub),
		Caja:     service.NewCajaService(libro, nil),
		Eventos:  handler.NewEventosHandler(hub),
		Health:   handler.HealthDeps{Store: "memory", Hub: hub},
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, hub: hub}
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp := do(t, e.server, http.MethodPost, "/api/auth/pin", map[string]string{"pin": "1234"}, "")
	expectStatus(t, resp, http.StatusOK)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	resp := do(t, env.server, http.MethodGet, "/health", nil, "")
	expectStatus(t, resp, http.StatusOK)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "memory", body["store"])
}

func TestLoginPIN(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodPost, "/api/auth/pin", map[string]string{"pin": "9999"}, "")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/auth/pin", map[string]string{"pin": "12"}, "")
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	var d detail
	decodeJSON(t, resp, &d)
	assert.Equal(t, "min", d.Fields["pin"])

	assert.NotEmpty(t, env.login(t))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := setupTestEnv(t)
	producto := map[string]any{"id": "p1", "nombre": "Milanesa", "precio": 4500}

	resp := do(t, env.server, http.MethodPost, "/api/products", producto, "")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/products", producto, "not-a-jwt")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/products", producto, env.login(t))
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// reads stay public
	resp = do(t, env.server, http.MethodGet, "/api/products", nil, "")
	expectStatus(t, resp, http.StatusOK)
	var productos []model.Producto
	decodeJSON(t, resp, &productos)
	require.Len(t, productos, 1)
	assert.Equal(t, int64(4500), productos[0].Precio)
}

func TestCicloCompleto(t *testing.T) {
	env := setupTestEnv(t)
	srv := env.server
	token := env.login(t)

	resp := do(t, srv, http.MethodPost, "/api/products",
		map[string]any{"id": "p1", "nombre": "Empanada", "precio": 2500, "stock": 5, "track_stock": true}, token)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, "/api/cash/open", map[string]any{"apertura_pesos": "100", "cajero": "Ana"}, token)
	expectStatus(t, resp, http.StatusOK)
	var caja model.SesionCaja
	decodeJSON(t, resp, &caja)
	assert.Equal(t, int64(10000), caja.Apertura)

	resp = do(t, srv, http.MethodPost, "/api/cash/open", map[string]any{"apertura": 1}, token)
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, "/api/orders", map[string]any{
		"mesa":  3,
		"mozo":  "Juan",
		"items": []map[string]any{{"producto_id": "p1", "precio_unitario": 2500, "cantidad": 2}},
	}, "")
	expectStatus(t, resp, http.StatusOK)
	var pedido model.Pedido
	decodeJSON(t, resp, &pedido)
	assert.Equal(t, model.PedidoAbierto, pedido.Estado)
	assert.Equal(t, int64(5000), pedido.Total)

	resp = do(t, srv, http.MethodPost, "/api/orders/"+pedido.ID+"/charge",
		map[string]any{"pagos": []map[string]any{{"metodo": "efectivo", "monto": 4900}}}, "")
	expectStatus(t, resp, http.StatusConflict)
	var d detail
	decodeJSON(t, resp, &d)
	assert.NotEmpty(t, d.Detail)

	resp = do(t, srv, http.MethodPost, "/api/orders/"+pedido.ID+"/charge",
		map[string]any{"pagos": []map[string]any{{"metodo": "Efectivo", "monto": 3000}, {"metodo": "QR", "monto": "2000"}}}, "")
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &pedido)
	assert.Equal(t, model.PedidoCerrado, pedido.Estado)

	resp = do(t, srv, http.MethodGet, "/api/orders?estado=cerrado", nil, "")
	expectStatus(t, resp, http.StatusOK)
	var cerrados []model.Pedido
	decodeJSON(t, resp, &cerrados)
	assert.Len(t, cerrados, 1)

	resp = do(t, srv, http.MethodGet, "/api/cash/open", nil, "")
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &caja)
	assert.Equal(t, int64(5000), caja.VentasTotal)
	assert.Equal(t, int64(3000), caja.VentasPorMetodo[model.BucketEfectivo])

	// cancelling is an admin action
	resp = do(t, srv, http.MethodPost, "/api/orders/"+pedido.ID+"/cancel", nil, "")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
	resp = do(t, srv, http.MethodPost, "/api/orders/"+pedido.ID+"/cancel", nil, token)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &pedido)
	assert.Equal(t, model.PedidoAnulado, pedido.Estado)

	resp = do(t, srv, http.MethodPost, "/api/cash/movement",
		map[string]any{"tipo": "egreso", "medio": "efectivo", "descripcion": "Hielo", "monto": 500}, token)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, "/api/cash/close", map[string]any{"conteo": 9500}, token)
	expectStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp, &caja)
	assert.True(t, caja.Cerrada)
	assert.Equal(t, int64(9500), caja.EfectivoEsperado)
	assert.Equal(t, int64(0), caja.DiferenciaEfectivo)

	resp = do(t, srv, http.MethodGet, "/api/cash/open", nil, "")
	expectStatus(t, resp, http.StatusOK)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "null", string(raw))

	resp = do(t, srv, http.MethodGet, "/api/cash/history", nil, "")
	expectStatus(t, resp, http.StatusOK)
	var historial []model.SesionCaja
	decodeJSON(t, resp, &historial)
	require.Len(t, historial, 1)

	resp = do(t, srv, http.MethodGet, "/api/cash/"+caja.ID+"/pdf", nil, "")
	expectStatus(t, resp, http.StatusOK)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = do(t, srv, http.MethodGet, "/api/products", nil, "")
	var productos []model.Producto
	decodeJSON(t, resp, &productos)
	assert.Equal(t, int64(5), *productos[0].Stock, "stock restored by the cancel")
}

func TestErrorMapping(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t)

	resp := do(t, env.server, http.MethodPut, "/api/orders/nope", map[string]any{"mesa": 2}, "")
	expectStatus(t, resp, http.StatusNotFound)
	var d detail
	decodeJSON(t, resp, &d)
	assert.NotEmpty(t, d.Detail)

	resp = do(t, env.server, http.MethodPost, "/api/cash/close", map[string]any{"conteo": 0}, token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/cash/movement", map[string]any{"tipo": "retiro", "monto": 10}, token)
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	d = detail{}
	decodeJSON(t, resp, &d)
	assert.Equal(t, "oneof", d.Fields["tipo"])

	resp = do(t, env.server, http.MethodPost, "/api/orders", "{not json", "")
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/api/orders?fecha=ayer", nil, "")
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodDelete, "/api/mozos/nadie", nil, token)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestGuardarPedidoAceptaItemsComoVienen(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodPost, "/api/orders", map[string]any{
		"mesa": -1,
		"items": []map[string]any{
			{"nombre": "Devolución", "precio_unitario": "1500.9", "cantidad": -1},
			{"producto_id": "p1", "precio_unitario": 2000, "cantidad": 2},
		},
		"descuento": -10,
		"fecha":     "hoy",
	}, "")
	expectStatus(t, resp, http.StatusOK)
	var pedido model.Pedido
	decodeJSON(t, resp, &pedido)
	assert.Equal(t, model.PedidoAbierto, pedido.Estado)
	require.Len(t, pedido.Items, 2)
	assert.Equal(t, "", pedido.Items[0].ProductoID)
	assert.Equal(t, int64(1500), pedido.Items[0].PrecioUnitario)
	assert.Equal(t, int64(-1), pedido.Items[0].Cantidad)
	assert.Equal(t, int64(2500), pedido.Total)
	assert.Equal(t, -1, pedido.Mesa)
	assert.Equal(t, "hoy", pedido.Fecha)
}

func TestAjustes(t *testing.T) {
	env := setupTestEnv(t)
	token := env.login(t)

	resp := do(t, env.server, http.MethodPut, "/api/config", map[string]any{"mesas": 12}, token)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/api/config", nil, "")
	var a model.Ajustes
	decodeJSON(t, resp, &a)
	assert.Equal(t, 12, a.Mesas)
	assert.Equal(t, "Mi Restaurante", a.NombreRestaurante)
}

func TestSSE(t *testing.T) {
	env := setupTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.server.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := env.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for SSE line")
			return ""
		}
	}
	require.Equal(t, ": connected", next())

	r := do(t, env.server, http.MethodPost, "/api/orders", map[string]any{"mesa": 1}, "")
	expectStatus(t, r, http.StatusOK)
	r.Body.Close()

	// skip blank separators and keep-alive comments
	l := next()
	for i := 0; i < 5 && (l == "" || strings.HasPrefix(l, ":")); i++ {
		l = next()
	}
	assert.Equal(t, "event:order-updated", l)
	assert.True(t, strings.HasPrefix(next(), "data:"))
}

func TestWebSocket(t *testing.T) {
	env := setupTestEnv(t)
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.Suscriptores() == 1 }, 2*time.Second, 10*time.Millisecond)

	r := do(t, env.server, http.MethodPost, "/api/orders", map[string]any{"mesa": 7}, "")
	expectStatus(t, r, http.StatusOK)
	r.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev notify.Evento
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.PedidoActualizado, ev.Tipo)
}
