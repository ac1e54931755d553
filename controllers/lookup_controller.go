package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/services"
)

// LookupController proxies the CEP and CNPJ registries.
type LookupController struct {
	lookups *services.LookupService
	log     *zap.Logger
}

func NewLookupController(lookups *services.LookupService, log *zap.Logger) *LookupController {
	return &LookupController{lookups: lookups, log: log}
}

func (lc *LookupController) CEP(c echo.Context) error {
	address, err := lc.lookups.CEP(c.Request().Context(), c.QueryParam("cep"))
	if err != nil {
		return fail(c, lc.log, err, "Erro ao buscar dados do CEP")
	}
	return c.JSON(http.StatusOK, address)
}

func (lc *LookupController) CNPJ(c echo.Context) error {
	company, err := lc.lookups.CNPJ(c.Request().Context(), c.QueryParam("cnpj"))
	if err != nil {
		return fail(c, lc.log, err, "Erro ao buscar dados do CNPJ")
	}
	return c.JSON(http.StatusOK, company)
}
