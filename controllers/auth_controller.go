package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// AuthController handles login, registration and the caller's profile.
type AuthController struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

// Login authenticates an administrator.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	resp, err := ac.auth.Login(c.Request().Context(), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao fazer login")
	}
	return c.JSON(http.StatusOK, resp)
}

// LoginAssociate authenticates the associate of an approved company.
func (ac *AuthController) LoginAssociate(c echo.Context) error {
	var req models.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	resp, err := ac.auth.LoginAssociate(c.Request().Context(), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao fazer login")
	}
	return c.JSON(http.StatusOK, resp)
}

// Register creates an administrator. Admin only.
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	resp, err := ac.auth.RegisterAdmin(c.Request().Context(), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao criar usuário")
	}
	return c.JSON(http.StatusCreated, resp)
}

// RegisterAssociate creates the associate account of an approved company.
func (ac *AuthController) RegisterAssociate(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	resp, err := ac.auth.RegisterAssociate(c.Request().Context(), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao criar conta")
	}
	return c.JSON(http.StatusCreated, resp)
}

func (ac *AuthController) Profile(c echo.Context) error {
	view, err := ac.auth.Profile(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, ac.log, err, "Erro ao buscar perfil")
	}
	return c.JSON(http.StatusOK, view)
}

func (ac *AuthController) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	view, err := ac.auth.UpdateProfile(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao atualizar perfil")
	}
	return c.JSON(http.StatusOK, view)
}
