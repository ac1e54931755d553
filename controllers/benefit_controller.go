package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/middleware"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// BenefitController serves /beneficios: the catalog, its redemptions and
// the QR code of each benefit.
type BenefitController struct {
	benefits    *services.BenefitService
	redemptions *services.RedemptionService
	log         *zap.Logger
}

func NewBenefitController(benefits *services.BenefitService, redemptions *services.RedemptionService, log *zap.Logger) *BenefitController {
	return &BenefitController{benefits: benefits, redemptions: redemptions, log: log}
}

// List branches on the caller: public, associate or admin.
func (bc *BenefitController) List(c echo.Context) error {
	benefits, err := bc.benefits.List(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, bc.log, err, "Erro ao buscar benefícios")
	}
	return c.JSON(http.StatusOK, benefits)
}

func (bc *BenefitController) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	benefit, err := bc.benefits.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao buscar benefício")
	}
	return c.JSON(http.StatusOK, benefit)
}

func (bc *BenefitController) Create(c echo.Context) error {
	var in models.BenefitInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	benefit, err := bc.benefits.Create(c.Request().Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao criar benefício")
	}
	return c.JSON(http.StatusCreated, benefit)
}

func (bc *BenefitController) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	var in models.BenefitInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	benefit, err := bc.benefits.Update(c.Request().Context(), middleware.IdentityFrom(c), id, in)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao atualizar benefício")
	}
	return c.JSON(http.StatusOK, benefit)
}

func (bc *BenefitController) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	if err := bc.benefits.Delete(c.Request().Context(), middleware.IdentityFrom(c), id); err != nil {
		return fail(c, bc.log, err, "Erro ao deletar benefício")
	}
	return message(c, "Benefício deletado com sucesso")
}

// QRCode returns a PNG encoding the benefit code.
func (bc *BenefitController) QRCode(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	png, err := bc.benefits.QRCode(c.Request().Context(), id)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao gerar QR code")
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", png)
}

// Redeem claims a benefit for the signed-in account.
func (bc *BenefitController) Redeem(c echo.Context) error {
	var req models.RedeemRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	resp, err := bc.redemptions.RedeemAccount(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao resgatar benefício")
	}
	return c.JSON(http.StatusOK, resp)
}

// RedeemPublic claims a benefit for a visitor identified by CPF.
func (bc *BenefitController) RedeemPublic(c echo.Context) error {
	var req models.RedeemRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, bc.log, err, msgInternal)
	}
	resp, err := bc.redemptions.RedeemGuest(c.Request().Context(), req)
	if err != nil {
		return fail(c, bc.log, err, "Erro ao resgatar benefício")
	}
	return c.JSON(http.StatusOK, resp)
}

// Redemptions lists the redemptions of the associate's company benefits.
func (bc *BenefitController) Redemptions(c echo.Context) error {
	list, err := bc.redemptions.ListForCompany(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return fail(c, bc.log, err, "Erro ao buscar resgates")
	}
	return c.JSON(http.StatusOK, list)
}
