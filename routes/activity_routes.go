package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterActivityRoutes mounts a training or event resource under prefix.
func RegisterActivityRoutes(api *echo.Group, prefix string, ac *controllers.ActivityController, auth *middleware.Auth) {
	g := api.Group(prefix)

	g.GET("", ac.List, auth.Optional())
	g.POST("", ac.Create, auth.Required())

	// Enrollment. Cancelling also accepts a CPF without a token.
	g.POST("/inscrever", ac.Enroll, auth.Optional())
	g.DELETE("/inscrever", ac.Cancel, auth.Optional())
	g.POST("/inscrever-publico", ac.EnrollPublic)
	g.GET("/inscritos", ac.Enrollees, auth.Required())

	g.GET("/:id", ac.Get)
	g.PUT("/:id", ac.Update, auth.Required())
	g.DELETE("/:id", ac.Delete, auth.Required())
}
