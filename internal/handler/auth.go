package handler

import (
	"errors"
	"net/http"

	"restopos/internal/apierror"
	"restopos/internal/dto"
	"restopos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// LoginPIN godoc
// @Summary Login con el PIN de administracion
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.PinLoginRequest true "PIN"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 429 {object} apierror.APIError
// @Router /api/auth/pin [post]
func (h *AuthHandler) LoginPIN(c *gin.Context) {
	var req dto.PinLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.LoginPIN(c.Request.Context(), req)
	if errors.Is(err, service.ErrPINInvalido) {
		c.JSON(http.StatusUnauthorized, apierror.New("PIN incorrecto"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
