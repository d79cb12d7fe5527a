package handler

import (
	"net/http"

	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves products and waiters (mozos).
type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ListarProductos godoc
// @Summary Lista el catalogo de productos
// @Tags productos
// @Produce json
// @Success 200 {array} model.Producto
// @Router /api/products [get]
func (h *CatalogoHandler) ListarProductos(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListarProductos(c.Request.Context()))
}

// GuardarProducto godoc
// @Summary Crea o reemplaza un producto
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ProductoRequest true "Producto"
// @Success 200 {object} model.Producto
// @Failure 422 {object} apierror.ValidationError
// @Router /api/products [post]
func (h *CatalogoHandler) GuardarProducto(c *gin.Context) {
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.GuardarProducto(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// EliminarProducto godoc
// @Summary Elimina un producto
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de producto"
// @Success 200 {object} okResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/products/{id} [delete]
func (h *CatalogoHandler) EliminarProducto(c *gin.Context) {
	if err := h.svc.EliminarProducto(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

// ── Mozos ────────────────────────────────────────────────────────────────────

// ListarMozos godoc
// @Summary Lista los mozos
// @Tags mozos
// @Produce json
// @Success 200 {array} model.Mozo
// @Router /api/mozos [get]
func (h *CatalogoHandler) ListarMozos(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListarMozos(c.Request.Context()))
}

// GuardarMozo godoc
// @Summary Crea o reemplaza un mozo
// @Tags mozos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MozoRequest true "Mozo"
// @Success 200 {object} model.Mozo
// @Router /api/mozos [post]
func (h *CatalogoHandler) GuardarMozo(c *gin.Context) {
	var req dto.MozoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.GuardarMozo(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// EliminarMozo godoc
// @Summary Elimina un mozo
// @Tags mozos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de mozo"
// @Success 200 {object} okResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/mozos/{id} [delete]
func (h *CatalogoHandler) EliminarMozo(c *gin.Context) {
	if err := h.svc.EliminarMozo(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}
