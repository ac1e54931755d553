package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newErrorEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.GET("/boom", func(c echo.Context) error { return errors.New("driver exploded") })
	e.GET("/denied", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "Acesso negado. Apenas administradores.")
	})
	e.GET("/limit", func(c echo.Context) error { return echo.ErrStatusRequestEntityTooLarge })
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestErrorHandler(t *testing.T) {
	e := newErrorEcho()

	tests := []struct {
		name   string
		method string
		target string
		code   int
		body   string
	}{
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, `{"error":"Rota não encontrada"}`},
		{"wrong method", http.MethodPost, "/boom", http.StatusMethodNotAllowed, `{"error":"Método não permitido"}`},
		{"plain error", http.MethodGet, "/boom", http.StatusInternalServerError, `{"error":"Erro interno do servidor"}`},
		{"http error message", http.MethodGet, "/denied", http.StatusForbidden, `{"error":"Acesso negado. Apenas administradores."}`},
		{"echo sentinel", http.MethodGet, "/limit", http.StatusRequestEntityTooLarge, `{"error":"Request Entity Too Large"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.target)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestErrorHandlerHead(t *testing.T) {
	rec := serve(newErrorEcho(), http.MethodHead, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
