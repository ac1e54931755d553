// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/services"
)

// RequireAdmin lets only administrators through. It must run after Auth.Required.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch IdentityFrom(c).(type) {
			case services.AdminIdentity:
				return next(c)
			case services.UnknownIdentity:
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			default:
				return echo.NewHTTPError(http.StatusForbidden, "Acesso negado. Apenas administradores.")
			}
		}
	}
}
