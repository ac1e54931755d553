package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// NotificationController serves the caller's notification inbox.
type NotificationController struct {
	notifications *services.NotificationService
	log           *zap.Logger
}

func NewNotificationController(notifications *services.NotificationService, log *zap.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, log: log}
}

// List accepts ?lida=true|false; anything else lists every notification.
func (nc *NotificationController) List(c echo.Context) error {
	var read *bool
	if v, err := strconv.ParseBool(c.QueryParam("lida")); err == nil {
		read = &v
	}
	list, err := nc.notifications.List(c.Request().Context(), middleware.IdentityFrom(c), read)
	if err != nil {
		return fail(c, nc.log, err, "Erro ao buscar notificações")
	}
	return c.JSON(http.StatusOK, list)
}

func (nc *NotificationController) Create(c echo.Context) error {
	var req models.CreateNotificationRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, nc.log, err, msgInternal)
	}
	resp, err := nc.notifications.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, nc.log, err, "Erro ao criar notificação")
	}
	return c.JSON(http.StatusCreated, resp)
}

func (nc *NotificationController) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, nc.log, err, msgInternal)
	}
	var req models.MarkReadRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, nc.log, err, msgInternal)
	}
	if err := nc.notifications.MarkRead(c.Request().Context(), middleware.IdentityFrom(c), id, req.Read); err != nil {
		return fail(c, nc.log, err, "Erro ao atualizar notificação")
	}
	return message(c, "Notificação atualizada com sucesso")
}

func (nc *NotificationController) MarkAllRead(c echo.Context) error {
	if _, err := nc.notifications.MarkAllRead(c.Request().Context(), middleware.IdentityFrom(c)); err != nil {
		return fail(c, nc.log, err, "Erro ao marcar notificações")
	}
	return message(c, "Todas as notificações foram marcadas como lidas")
}

func (nc *NotificationController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, nc.log, err, msgInternal)
	}
	if err := nc.notifications.Delete(c.Request().Context(), middleware.IdentityFrom(c), id); err != nil {
		return fail(c, nc.log, err, "Erro ao deletar notificação")
	}
	return message(c, "Notificação deletada com sucesso")
}
