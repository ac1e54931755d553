package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{Duplicate("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{Unavailable("x", errors.New("timeout")), http.StatusBadGateway},
		{Internal(errors.New("boom"), "x"), http.StatusInternalServerError},
		{errors.New("driver error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	err := fmt.Errorf("creating company: %w", Conflict("CNPJ já cadastrado"))

	assert.Equal(t, http.StatusConflict, Status(err))
	assert.True(t, Is(err, KindConflict))
	assert.Equal(t, "CNPJ já cadastrado", Message(err, "fallback"))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Erro ao buscar", Message(errors.New("dial tcp: refused"), "Erro ao buscar"))
	assert.Equal(t, "Erro ao buscar", Message(Internal(errors.New("boom"), ""), "Erro ao buscar"))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Unavailable("Erro ao buscar CEP", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Erro ao buscar CEP: timeout", err.Error())
}
