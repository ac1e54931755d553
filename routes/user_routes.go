package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterUserRoutes mounts the administrator management routes
func RegisterUserRoutes(api *echo.Group, uc *controllers.UserController, auth *middleware.Auth) {
	g := api.Group("/usuarios", auth.Required(), middleware.RequireAdmin())
	g.GET("", uc.List)
	g.POST("", uc.Create)
	g.GET("/:id", uc.Get)
	g.PUT("/:id", uc.Update)
	g.DELETE("/:id", uc.Delete)
}
