package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// ActivityController serves /capacitacoes or /eventos, whichever kind its
// service was built for.
type ActivityController struct {
	activities *services.ActivityService
	log        *zap.Logger
	// key of the activity in enrollment responses and of its id in queries
	itemKey string
	idParam string
}

func NewActivityController(activities *services.ActivityService, log *zap.Logger) *ActivityController {
	ac := &ActivityController{activities: activities, log: log}
	if activities.Kind() == models.KindEvent {
		ac.itemKey, ac.idParam = "evento", "eventoId"
	} else {
		ac.itemKey, ac.idParam = "capacitacao", "capacitacaoId"
	}
	return ac
}

func (ac *ActivityController) fallback(action string) string {
	if ac.activities.Kind() == models.KindEvent {
		return "Erro ao " + action + " evento"
	}
	return "Erro ao " + action + " capacitação"
}

// List returns the public listing unless ?area=logged is sent.
func (ac *ActivityController) List(c echo.Context) error {
	logged := c.QueryParam("area") == "logged"
	list, err := ac.activities.List(c.Request().Context(), middleware.IdentityFrom(c), logged)
	if err != nil {
		return fail(c, ac.log, err, ac.fallback("buscar"))
	}
	return c.JSON(http.StatusOK, list)
}

func (ac *ActivityController) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	activity, err := ac.activities.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, ac.log, err, ac.fallback("buscar"))
	}
	return c.JSON(http.StatusOK, activity)
}

func (ac *ActivityController) Create(c echo.Context) error {
	var in models.ActivityInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	activity, err := ac.activities.Create(c.Request().Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		return fail(c, ac.log, err, ac.fallback("criar"))
	}
	return c.JSON(http.StatusCreated, activity)
}

func (ac *ActivityController) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	var in models.ActivityInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	activity, err := ac.activities.Update(c.Request().Context(), middleware.IdentityFrom(c), id, in)
	if err != nil {
		return fail(c, ac.log, err, ac.fallback("atualizar"))
	}
	return c.JSON(http.StatusOK, activity)
}

func (ac *ActivityController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	if err := ac.activities.Delete(c.Request().Context(), middleware.IdentityFrom(c), id); err != nil {
		return fail(c, ac.log, err, ac.fallback("deletar"))
	}
	return message(c, ac.activities.DeletedMessage())
}

func (ac *ActivityController) enrolled(c echo.Context, headline *models.ActivityHeadline) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Inscrição realizada com sucesso!",
		ac.itemKey: headline,
	})
}

// Enroll registers the signed-in account, or the visitor named in the body
// when no valid token was sent.
func (ac *ActivityController) Enroll(c echo.Context) error {
	var req models.EnrollRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	var (
		headline *models.ActivityHeadline
		err      error
	)
	if who := middleware.IdentityFrom(c); !who.AccountID().IsZero() {
		headline, err = ac.activities.EnrollAccount(c.Request().Context(), who, req)
	} else {
		headline, err = ac.activities.EnrollGuest(c.Request().Context(), req)
	}
	if err != nil {
		return fail(c, ac.log, err, "Erro ao realizar inscrição")
	}
	return ac.enrolled(c, headline)
}

// EnrollPublic always registers by name, CPF and phone.
func (ac *ActivityController) EnrollPublic(c echo.Context) error {
	var req models.EnrollRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	headline, err := ac.activities.EnrollGuest(c.Request().Context(), req)
	if err != nil {
		return fail(c, ac.log, err, "Erro ao realizar inscrição")
	}
	return ac.enrolled(c, headline)
}

// Cancel removes an enrollment by CPF when one is given, otherwise the
// enrollment of the signed-in account.
func (ac *ActivityController) Cancel(c echo.Context) error {
	var req models.EnrollRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, ac.log, err, msgInternal)
	}
	var err error
	if who := middleware.IdentityFrom(c); req.CPF == "" && !who.AccountID().IsZero() {
		err = ac.activities.CancelAccount(c.Request().Context(), who, req)
	} else {
		err = ac.activities.CancelGuest(c.Request().Context(), req)
	}
	if err != nil {
		return fail(c, ac.log, err, "Erro ao cancelar inscrição")
	}
	return message(c, "Inscrição cancelada com sucesso")
}

// Enrollees lists the enrollments of the activity named in the query.
func (ac *ActivityController) Enrollees(c echo.Context) error {
	list, err := ac.activities.Enrollees(c.Request().Context(), middleware.IdentityFrom(c), c.QueryParam(ac.idParam))
	if err != nil {
		return fail(c, ac.log, err, "Erro ao buscar inscritos")
	}
	return c.JSON(http.StatusOK, list)
}
