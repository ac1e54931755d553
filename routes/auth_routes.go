package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterAuthRoutes sets up login, registration and profile routes
func RegisterAuthRoutes(api *echo.Group, ac *controllers.AuthController, auth *middleware.Auth) {
	g := api.Group("/auth")

	// Public authentication routes
	g.POST("/login", ac.Login)
	g.POST("/login-associado", ac.LoginAssociate)
	g.POST("/register-associado", ac.RegisterAssociate)

	// Only an administrator may create another administrator
	g.POST("/register", ac.Register, auth.Required(), middleware.RequireAdmin())

	g.GET("/perfil", ac.Profile, auth.Required())
	g.PUT("/perfil", ac.UpdateProfile, auth.Required())
}
