package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// UserController manages administrator accounts under /usuarios.
type UserController struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserController(users *services.UserService, log *zap.Logger) *UserController {
	return &UserController{users: users, log: log}
}

func (uc *UserController) List(c echo.Context) error {
	users, err := uc.users.List(c.Request().Context())
	if err != nil {
		return fail(c, uc.log, err, "Erro ao buscar usuários")
	}
	return c.JSON(http.StatusOK, users)
}

func (uc *UserController) Create(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, uc.log, err, msgInternal)
	}
	user, err := uc.users.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, uc.log, err, "Erro ao criar usuário")
	}
	return c.JSON(http.StatusCreated, user)
}

func (uc *UserController) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, uc.log, err, msgInternal)
	}
	user, err := uc.users.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, uc.log, err, "Erro ao buscar usuário")
	}
	return c.JSON(http.StatusOK, user)
}

func (uc *UserController) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, uc.log, err, msgInternal)
	}
	var req models.UpdateAdminRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, uc.log, err, msgInternal)
	}
	user, err := uc.users.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, uc.log, err, "Erro ao atualizar usuário")
	}
	return c.JSON(http.StatusOK, user)
}

func (uc *UserController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, uc.log, err, msgInternal)
	}
	if err := uc.users.Delete(c.Request().Context(), id); err != nil {
		return fail(c, uc.log, err, "Erro ao deletar usuário")
	}
	return message(c, "Usuário deletado com sucesso")
}
