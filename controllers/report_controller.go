package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// ReportController serves the admin dashboards and data exports.
type ReportController struct {
	reports *services.ReportService
	log     *zap.Logger
	now     func() time.Time
}

func NewReportController(reports *services.ReportService, log *zap.Logger) *ReportController {
	return &ReportController{reports: reports, log: log, now: time.Now}
}

// Reports returns the section named by ?tipo=, or all of them.
func (rc *ReportController) Reports(c echo.Context) error {
	report, err := rc.reports.Build(c.Request().Context(), strings.TrimSpace(c.QueryParam("tipo")))
	if err != nil {
		return fail(c, rc.log, err, "Erro ao gerar relatório")
	}
	return c.JSON(http.StatusOK, report)
}

// Export writes ?tipo= as CSV, or as JSON when ?formato=json.
func (rc *ReportController) Export(c echo.Context) error {
	table, rows, err := rc.reports.Export(c.Request().Context(), strings.TrimSpace(c.QueryParam("tipo")))
	if err != nil {
		return fail(c, rc.log, err, "Erro ao exportar dados")
	}

	if c.QueryParam("formato") == "json" {
		if rows == nil {
			rows = []utils.Record{}
		}
		return c.JSON(http.StatusOK, rows)
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Nenhum dado para exportar"})
	}
	var buf bytes.Buffer
	if err := utils.WriteCSV(&buf, rows); err != nil {
		return fail(c, rc.log, err, "Erro ao exportar dados")
	}
	filename := fmt.Sprintf("%s_%s.csv", table, rc.now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
