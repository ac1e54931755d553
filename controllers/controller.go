package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
)

const (
	msgInvalidID   = "ID inválido"
	msgInvalidBody = "Corpo da requisição inválido"
	msgInvalidData = "Dados inválidos"
	msgInternal    = "Erro interno do servidor"
)

var binder = &echo.DefaultBinder{}

// bindBody decodes the JSON body of any method, DELETE included, and runs
// the struct validator when one is installed. An empty body leaves v untouched.
func bindBody(c echo.Context, v interface{}) error {
	if err := binder.BindBody(c, v); err != nil {
		return apperrors.Validation(msgInvalidBody)
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(v); err != nil {
		return apperrors.Validation(msgInvalidData)
	}
	return nil
}

// parseID reads an ObjectID path parameter.
func parseID(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation(msgInvalidID)
	}
	return id, nil
}

// fail renders err as {"error": msg}. Unexpected failures are logged and
// answered with fallback so driver details never reach the client.
func fail(c echo.Context, log *zap.Logger, err error, fallback string) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal:
		log.Error(fallback,
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
	case apperrors.KindUnavailable:
		log.Warn(fallback, zap.String("route", c.Path()), zap.Error(err))
	}
	return c.JSON(apperrors.Status(err), models.ErrorResponse{Error: apperrors.Message(err, fallback)})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, models.MessageResponse{Message: msg})
}
