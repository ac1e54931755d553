package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

type CompanyController struct {
	companies *services.CompanyService
	log       *zap.Logger
}

func NewCompanyController(companies *services.CompanyService, log *zap.Logger) *CompanyController {
	return &CompanyController{companies: companies, log: log}
}

// List returns the approved companies.
func (cc *CompanyController) List(c echo.Context) error {
	companies, err := cc.companies.ListApproved(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar empresas")
	}
	return c.JSON(http.StatusOK, companies)
}

// Pending lists companies by status for review; pendente by default.
func (cc *CompanyController) Pending(c echo.Context) error {
	companies, err := cc.companies.ListByStatus(c.Request().Context(), strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar empresas")
	}
	return c.JSON(http.StatusOK, companies)
}

// Create is the public sign-up form.
func (cc *CompanyController) Create(c echo.Context) error {
	var in models.CompanyInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	resp, err := cc.companies.Create(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao cadastrar empresa")
	}
	return c.JSON(http.StatusCreated, resp)
}

func (cc *CompanyController) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	company, err := cc.companies.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar empresa")
	}
	return c.JSON(http.StatusOK, company)
}

func (cc *CompanyController) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	var in models.CompanyInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	company, err := cc.companies.Update(c.Request().Context(), middleware.IdentityFrom(c), id, in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar empresa")
	}
	return c.JSON(http.StatusOK, company)
}

func (cc *CompanyController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	if err := cc.companies.Delete(c.Request().Context(), id); err != nil {
		return fail(c, cc.log, err, "Erro ao deletar empresa")
	}
	return message(c, "Empresa deletada com sucesso")
}
