package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterAdminRoutes registers reports and data export
func RegisterAdminRoutes(api *echo.Group, rc *controllers.ReportController, auth *middleware.Auth) {
	admin := []echo.MiddlewareFunc{auth.Required(), middleware.RequireAdmin()}
	api.GET("/relatorios", rc.Reports, admin...)
	api.GET("/exportar", rc.Export, admin...)
}

// RegisterLookupRoutes registers the public CEP and CNPJ lookups
func RegisterLookupRoutes(api *echo.Group, lc *controllers.LookupController) {
	g := api.Group("/consultas")
	g.GET("/buscar-cep", lc.CEP)
	g.GET("/buscar-cnpj", lc.CNPJ)
}
