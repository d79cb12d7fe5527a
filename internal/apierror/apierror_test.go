package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsUnwrap(t *testing.T) {
	err := Conflict("la suma de pagos (%d) no coincide con el total (%d)", 4900, 5000)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "la suma de pagos (4900) no coincide con el total (5000)", err.Error())

	wrapped := fmt.Errorf("cobrar: %w", NotFound("pedido %q no encontrado", "x"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(NotFound("x")))
	assert.Equal(t, http.StatusConflict, Status(Conflict("x")))
	assert.Equal(t, http.StatusBadRequest, Status(Precondition("x")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("disk full")))
}
