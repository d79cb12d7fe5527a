package handler

import (
	"net/http"

	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type AjustesHandler struct{ svc service.AjustesService }

func NewAjustesHandler(svc service.AjustesService) *AjustesHandler {
	return &AjustesHandler{svc: svc}
}

// Obtener godoc
// @Summary Ajustes del restaurante
// @Tags config
// @Produce json
// @Success 200 {object} model.Ajustes
// @Router /api/config [get]
func (h *AjustesHandler) Obtener(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Obtener(c.Request.Context()))
}

// Actualizar godoc
// @Summary Actualiza nombre y cantidad de mesas
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AjustesRequest true "Campos a cambiar"
// @Success 200 {object} model.Ajustes
// @Failure 422 {object} apierror.ValidationError
// @Router /api/config [put]
func (h *AjustesHandler) Actualizar(c *gin.Context) {
	var req dto.AjustesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
