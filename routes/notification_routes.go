package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/websocket"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(api *echo.Group, nc *controllers.NotificationController, auth *middleware.Auth) {
	g := api.Group("/notificacoes", auth.Required())
	g.GET("", nc.List)
	g.POST("", nc.Create)
	g.PUT("/marcar-todas", nc.MarkAllRead)
	g.PUT("/:id", nc.MarkRead)
	g.DELETE("/:id", nc.Delete)
}

// RegisterWebSocketRoutes exposes the realtime channel. The token travels in
// the query string because browsers cannot set headers on the handshake.
func RegisterWebSocketRoutes(e *echo.Echo, hub *websocket.Hub, auth *middleware.Auth) {
	authenticate := func(token string) (primitive.ObjectID, bool) {
		accountID, ok := auth.AccountFromToken(token)
		if !ok {
			return primitive.NilObjectID, false
		}
		id, err := primitive.ObjectIDFromHex(accountID)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return id, true
	}

	e.GET("/ws", func(c echo.Context) error {
		userID, _ := authenticate(c.QueryParam("token"))
		return websocket.HandleWebSocket(c, hub, userID, authenticate)
	})
}
