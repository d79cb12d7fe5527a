package router

import (
	"context"
	"time"

	"restopos/internal/config"
	"restopos/internal/handler"
	"restopos/internal/middleware"
	"restopos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
)

// Deps carries the wired services into the HTTP layer.
type Deps struct {
	Auth     service.AuthService
	Ajustes  service.AjustesService
	Catalogo service.CatalogoService
	Pedidos  service.PedidoService
	Cobro    service.CobroService
	Caja     service.CajaService
	Eventos  *handler.EventosHandler
	Health   handler.HealthDeps

	LoginLimiter *middleware.IPLimiter
	APILimiter   *middleware.IPLimiter
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Libro ← SnapshotRepository
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	if d.APILimiter != nil {
		r.Use(middleware.RateLimiter(d.APILimiter))
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = middleware.NewLoginLimiter()
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(d.Auth)
	ajustesH := handler.NewAjustesHandler(d.Ajustes)
	catalogoH := handler.NewCatalogoHandler(d.Catalogo)
	pedidosH := handler.NewPedidosHandler(d.Pedidos, d.Cobro)
	cajaH := handler.NewCajaHandler(d.Caja, func() string {
		return d.Ajustes.Obtener(context.Background()).NombreRestaurante
	})

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.Health))

	api := r.Group("/api")
	api.POST("/auth/pin", middleware.LoginRateLimiter(d.LoginLimiter), authH.LoginPIN)

	if d.Eventos != nil {
		api.GET("/events", d.Eventos.SSE)
		api.GET("/ws", d.Eventos.WS)
	}

	// Waiter and kitchen screens read everything and work orders without a PIN.
	api.GET("/config", ajustesH.Obtener)
	api.GET("/products", catalogoH.ListarProductos)
	api.GET("/mozos", catalogoH.ListarMozos)
	api.GET("/orders", pedidosH.Listar)
	api.POST("/orders", pedidosH.Guardar)
	api.PUT("/orders/:id", pedidosH.Actualizar)
	api.POST("/orders/:id/charge", pedidosH.Cobrar)
	api.GET("/cash/open", cajaH.GetActiva)
	api.GET("/cash/history", cajaH.Historial)
	api.GET("/cash/:id", cajaH.Obtener)
	api.GET("/cash/:id/pdf", cajaH.DescargarPDF)

	// Admin surfaces: PIN token required
	admin := api.Group("", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(service.RolAdmin))
	{
		admin.PUT("/config", ajustesH.Actualizar)

		admin.POST("/products", catalogoH.GuardarProducto)
		admin.DELETE("/products/:id", catalogoH.EliminarProducto)
		admin.POST("/mozos", catalogoH.GuardarMozo)
		admin.DELETE("/mozos/:id", catalogoH.EliminarMozo)

		admin.POST("/orders/:id/cancel", pedidosH.Anular)

		admin.POST("/cash/open", cajaH.Abrir)
		admin.POST("/cash/movement", cajaH.RegistrarMovimiento)
		admin.POST("/cash/close", cajaH.Cerrar)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// PurgeLimiters drops idle rate limiter entries until done is closed.
func PurgeLimiters(done <-chan struct{}, limiters ...*middleware.IPLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for _, l := range limiters {
				if l != nil {
					l.Purge(10 * time.Minute)
				}
			}
		}
	}
}
