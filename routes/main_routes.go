package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/controllers"
	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/websocket"
)

// Handlers bundles the controllers mounted by SetupRoutes.
type Handlers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Companies     *controllers.CompanyController
	Approvals     *controllers.ApprovalController
	Benefits      *controllers.BenefitController
	Trainings     *controllers.ActivityController
	Events        *controllers.ActivityController
	Notifications *controllers.NotificationController
	Content       *controllers.ContentController
	Reports       *controllers.ReportController
	Lookups       *controllers.LookupController
	Health        *controllers.HealthController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, h Handlers, auth *middleware.Auth, hub *websocket.Hub) {
	e.Match([]string{http.MethodGet, http.MethodHead}, "/", h.Health.Root)
	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	RegisterAuthRoutes(api, h.Auth, auth)
	RegisterUserRoutes(api, h.Users, auth)
	RegisterCompanyRoutes(api, h.Companies, h.Approvals, auth)
	RegisterBenefitRoutes(api, h.Benefits, auth)
	RegisterActivityRoutes(api, "/capacitacoes", h.Trainings, auth)
	RegisterActivityRoutes(api, "/eventos", h.Events, auth)
	RegisterNotificationRoutes(api, h.Notifications, auth)
	RegisterContentRoutes(api, h.Content, auth)
	RegisterAdminRoutes(api, h.Reports, auth)
	RegisterLookupRoutes(api, h.Lookups)
	RegisterWebSocketRoutes(e, hub, auth)
}

// ErrorHandler renders every error that reaches echo as {"error": msg}.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Erro interno do servidor"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch code {
			case http.StatusNotFound:
				msg = "Rota não encontrada"
			case http.StatusMethodNotAllowed:
				msg = "Método não permitido"
			default:
				if s, ok := he.Message.(string); ok {
					msg = s
				} else {
					msg = http.StatusText(code)
				}
			}
		} else {
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, models.ErrorResponse{Error: msg})
		}
		if err != nil {
			log.Warn("failed to write error response", zap.Error(err))
		}
	}
}
