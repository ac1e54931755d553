package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store answers.
type Pinger func(ctx context.Context) error

type HealthController struct {
	ping    Pinger
	version string
}

func NewHealthController(ping Pinger, version string) *HealthController {
	return &HealthController{ping: ping, version: version}
}

func (hc *HealthController) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":    "API AECAC",
		"version": hc.version,
		"status":  "ok",
	})
}

// Health answers 503 while the database is unreachable.
func (hc *HealthController) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := hc.ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "error",
			"database": "unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}
