package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterCompanyRoutes registers company CRUD and the approval workflow
func RegisterCompanyRoutes(api *echo.Group, cc *controllers.CompanyController, approvals *controllers.ApprovalController, auth *middleware.Auth) {
	g := api.Group("/empresas")

	// Public: approved listing and self-registration
	g.GET("", cc.List)
	g.POST("", cc.Create)

	// Admin-only review queue. Static paths come before /:id.
	g.GET("/pendentes", cc.Pending, auth.Required(), middleware.RequireAdmin())
	g.PUT("/aprovar", approvals.Review, auth.Required(), middleware.RequireAdmin())

	g.GET("/:id", cc.Get)
	g.PUT("/:id", cc.Update, auth.Required())
	g.DELETE("/:id", cc.Delete, auth.Required(), middleware.RequireAdmin())
}
