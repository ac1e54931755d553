package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// ApprovalController handles the admin decision on a pending company.
type ApprovalController struct {
	companies *services.CompanyService
	log       *zap.Logger
}

func NewApprovalController(companies *services.CompanyService, log *zap.Logger) *ApprovalController {
	return &ApprovalController{companies: companies, log: log}
}

func (ac *ApprovalController) Review(c echo.Context) error {
	var req models.ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	reviewer := middleware.IdentityFrom(c).AccountID()
	resp, err := ac.companies.Review(c.Request().Context(), reviewer, req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao processar solicitação")
	}
	return c.JSON(http.StatusOK, resp)
}
