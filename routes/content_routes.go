package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
)

// RegisterContentRoutes registers the institutional site content. Reads are
// public and every write requires an administrator.
func RegisterContentRoutes(api *echo.Group, cc *controllers.ContentController, auth *middleware.Auth) {
	admin := []echo.MiddlewareFunc{auth.Required(), middleware.RequireAdmin()}

	gallery := api.Group("/galeria")
	gallery.GET("", cc.ListGallery)
	gallery.POST("", cc.CreateImage, admin...)
	gallery.PUT("/ordem", cc.ReorderGallery, admin...)
	gallery.GET("/:id", cc.GetImage)
	gallery.PUT("/:id", cc.UpdateImage, admin...)
	gallery.DELETE("/:id", cc.DeleteImage, admin...)

	board := api.Group("/diretoria")
	board.GET("", cc.ListBoard)
	board.POST("", cc.CreateMember, admin...)
	board.GET("/:id", cc.GetMember)
	board.PUT("/:id", cc.UpdateMember, admin...)
	board.DELETE("/:id", cc.DeleteMember, admin...)

	partners := api.Group("/parceiros")
	partners.GET("", cc.ListPartners)
	partners.POST("", cc.CreatePartner, admin...)
	partners.GET("/:id", cc.GetPartner)
	partners.PUT("/:id", cc.UpdatePartner, admin...)
	partners.DELETE("/:id", cc.DeletePartner, admin...)

	api.GET("/sobre", cc.GetAbout)
	api.PUT("/sobre", cc.SaveAbout, admin...)
	api.GET("/configuracoes", cc.GetSettings)
	api.PUT("/configuracoes", cc.SaveSettings, admin...)
}
