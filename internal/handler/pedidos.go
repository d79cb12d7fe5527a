package handler

import (
	"net/http"

	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct {
	pedidos service.PedidoService
	cobro   service.CobroService
}

func NewPedidosHandler(pedidos service.PedidoService, cobro service.CobroService) *PedidosHandler {
	return &PedidosHandler{pedidos: pedidos, cobro: cobro}
}

// Listar godoc
// @Summary Lista pedidos, filtrando por estado y fecha
// @Tags pedidos
// @Produce json
// @Param estado query string false "abierto | cerrado | anulado"
// @Param fecha query string false "YYYY-MM-DD"
// @Success 200 {array} model.Pedido
// @Failure 422 {object} apierror.ValidationError
// @Router /api/orders [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	c.JSON(http.StatusOK, h.pedidos.Listar(c.Request.Context(), filter))
}

// Guardar godoc
// @Summary Crea un pedido o reemplaza uno existente
// @Description Sin id se crea un pedido abierto. Con id se reemplazan mesa, items, mozo y demas datos editables; estado y cobro no cambian.
// @Tags pedidos
// @Accept json
// @Produce json
// @Param body body dto.GuardarPedidoRequest true "Pedido"
// @Success 200 {object} model.Pedido
// @Failure 422 {object} apierror.ValidationError
// @Router /api/orders [post]
func (h *PedidosHandler) Guardar(c *gin.Context) {
	var req dto.GuardarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.pedidos.Guardar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Actualizar godoc
// @Summary Actualiza parcialmente un pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path string true "ID de pedido"
// @Param body body dto.ActualizarPedidoRequest true "Campos a cambiar"
// @Success 200 {object} model.Pedido
// @Failure 404 {object} apierror.APIError
// @Router /api/orders/{id} [put]
func (h *PedidosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.pedidos.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Cobrar godoc
// @Summary Cobra un pedido abierto
// @Description La suma de pagos debe igualar total menos descuento. Aplica la venta a la caja abierta y descuenta stock.
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path string true "ID de pedido"
// @Param body body dto.CobrarPedidoRequest true "Pagos"
// @Success 200 {object} model.Pedido
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/orders/{id}/charge [post]
func (h *PedidosHandler) Cobrar(c *gin.Context) {
	var req dto.CobrarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.cobro.Cobrar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Anular godoc
// @Summary Anula un pedido
// @Description Si estaba cobrado revierte la venta en la caja y repone stock. Anular dos veces no tiene efecto.
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de pedido"
// @Success 200 {object} model.Pedido
// @Failure 404 {object} apierror.APIError
// @Router /api/orders/{id}/cancel [post]
func (h *PedidosHandler) Anular(c *gin.Context) {
	p, err := h.cobro.Anular(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
