package handler

import (
	"fmt"
	"net/http"

	"restopos/internal/dto"
	"restopos/internal/infra"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct {
	svc         service.CajaService
	restaurante func() string
}

// NewCajaHandler takes the restaurant name lazily so the PDF header follows
// settings changes.
func NewCajaHandler(svc service.CajaService, restaurante func() string) *CajaHandler {
	return &CajaHandler{svc: svc, restaurante: restaurante}
}

// GetActiva godoc
// @Summary Caja abierta actual
// @Description Devuelve null si no hay caja abierta.
// @Tags caja
// @Produce json
// @Success 200 {object} model.SesionCaja
// @Router /api/cash/open [get]
func (h *CajaHandler) GetActiva(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Activa(c.Request.Context()))
}

// Abrir godoc
// @Summary Abre una nueva sesion de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 200 {object} model.SesionCaja
// @Failure 409 {object} apierror.APIError
// @Router /api/cash/open [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o egreso manual en caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoCajaRequest true "Movimiento manual"
// @Success 200 {object} model.MovimientoCaja
// @Failure 400 {object} apierror.APIError
// @Router /api/cash/movement [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Cerrar godoc
// @Summary Cierra la caja con el conteo de efectivo
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Conteo"
// @Success 200 {object} model.SesionCaja
// @Failure 400 {object} apierror.APIError
// @Router /api/cash/close [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Historial godoc
// @Summary Historial de sesiones de caja
// @Tags caja
// @Produce json
// @Param desde query string false "YYYY-MM-DD"
// @Param hasta query string false "YYYY-MM-DD"
// @Success 200 {array} model.SesionCaja
// @Router /api/cash/history [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	var filter dto.HistorialCajaFilter
	if !bindQuery(c, &filter) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Historial(c.Request.Context(), filter))
}

// Obtener godoc
// @Summary Obtiene una sesion de caja
// @Tags caja
// @Produce json
// @Param id path string true "ID de sesion"
// @Success 200 {object} model.SesionCaja
// @Failure 404 {object} apierror.APIError
// @Router /api/cash/{id} [get]
func (h *CajaHandler) Obtener(c *gin.Context) {
	s, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DescargarPDF godoc
// @Summary Reporte de cierre en PDF
// @Tags caja
// @Produce application/pdf
// @Param id path string true "ID de sesion"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /api/cash/{id}/pdf [get]
func (h *CajaHandler) DescargarPDF(c *gin.Context) {
	s, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=cierre_%s.pdf", s.ID))
	if err := infra.WriteCierrePDF(c.Writer, h.restaurante(), s); err != nil {
		fail(c, err)
	}
}
