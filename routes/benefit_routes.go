package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterBenefitRoutes registers benefit CRUD and redemption routes
func RegisterBenefitRoutes(api *echo.Group, bc *controllers.BenefitController, auth *middleware.Auth) {
	g := api.Group("/beneficios")

	g.GET("", bc.List, auth.Optional())
	g.POST("", bc.Create, auth.Required())

	g.POST("/resgatar", bc.Redeem, auth.Required())
	g.POST("/resgatar-publico", bc.RedeemPublic)
	g.GET("/resgates", bc.Redemptions, auth.Required())

	g.GET("/:id", bc.Get)
	g.PUT("/:id", bc.Update, auth.Required())
	g.DELETE("/:id", bc.Delete, auth.Required())
	g.GET("/:id/qrcode", bc.QRCode)
}
