package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// ContentController serves the institutional site pages.
type ContentController struct {
	content *services.ContentService
	log     *zap.Logger
}

func NewContentController(content *services.ContentService, log *zap.Logger) *ContentController {
	return &ContentController{content: content, log: log}
}

// Gallery

func (cc *ContentController) ListGallery(c echo.Context) error {
	images, err := cc.content.ListGallery(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar galeria")
	}
	return c.JSON(http.StatusOK, images)
}

func (cc *ContentController) GetImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	img, err := cc.content.GetImage(c.Request().Context(), id)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar imagem")
	}
	return c.JSON(http.StatusOK, img)
}

func (cc *ContentController) CreateImage(c echo.Context) error {
	var in models.GalleryInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	img, err := cc.content.CreateImage(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao adicionar imagem")
	}
	return c.JSON(http.StatusCreated, img)
}

func (cc *ContentController) UpdateImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	var in models.GalleryInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	img, err := cc.content.UpdateImage(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar imagem")
	}
	return c.JSON(http.StatusOK, img)
}

func (cc *ContentController) DeleteImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	if err := cc.content.DeleteImage(c.Request().Context(), id); err != nil {
		return fail(c, cc.log, err, "Erro ao deletar imagem")
	}
	return message(c, "Imagem deletada com sucesso")
}

func (cc *ContentController) ReorderGallery(c echo.Context) error {
	var req models.GalleryOrderRequest
	if err := bindBody(c, &req); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	if err := cc.content.ReorderGallery(c.Request().Context(), req); err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar ordem")
	}
	return message(c, "Ordem atualizada com sucesso")
}

// Board

func (cc *ContentController) ListBoard(c echo.Context) error {
	members, err := cc.content.ListBoard(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar diretoria")
	}
	return c.JSON(http.StatusOK, members)
}

func (cc *ContentController) GetMember(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	m, err := cc.content.GetMember(c.Request().Context(), id)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar membro")
	}
	return c.JSON(http.StatusOK, m)
}

func (cc *ContentController) CreateMember(c echo.Context) error {
	var in models.BoardMemberInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	m, err := cc.content.CreateMember(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao criar membro")
	}
	return c.JSON(http.StatusCreated, m)
}

func (cc *ContentController) UpdateMember(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	var in models.BoardMemberInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	m, err := cc.content.UpdateMember(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar membro")
	}
	return c.JSON(http.StatusOK, m)
}

func (cc *ContentController) DeleteMember(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	if err := cc.content.DeleteMember(c.Request().Context(), id); err != nil {
		return fail(c, cc.log, err, "Erro ao deletar membro")
	}
	return message(c, "Membro deletado com sucesso")
}

// Partners

func (cc *ContentController) ListPartners(c echo.Context) error {
	partners, err := cc.content.ListPartners(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar parceiros")
	}
	return c.JSON(http.StatusOK, partners)
}

func (cc *ContentController) GetPartner(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	p, err := cc.content.GetPartner(c.Request().Context(), id)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar parceiro")
	}
	return c.JSON(http.StatusOK, p)
}

func (cc *ContentController) CreatePartner(c echo.Context) error {
	var in models.PartnerInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	p, err := cc.content.CreatePartner(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao criar parceiro")
	}
	return c.JSON(http.StatusCreated, p)
}

func (cc *ContentController) UpdatePartner(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	var in models.PartnerInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	p, err := cc.content.UpdatePartner(c.Request().Context(), id, in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar parceiro")
	}
	return c.JSON(http.StatusOK, p)
}

func (cc *ContentController) DeletePartner(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	if err := cc.content.DeletePartner(c.Request().Context(), id); err != nil {
		return fail(c, cc.log, err, "Erro ao deletar parceiro")
	}
	return message(c, "Parceiro deletado com sucesso")
}

// About and settings

func (cc *ContentController) GetAbout(c echo.Context) error {
	about, err := cc.content.GetAbout(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar informações")
	}
	return c.JSON(http.StatusOK, about)
}

func (cc *ContentController) SaveAbout(c echo.Context) error {
	var in models.AboutInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	about, err := cc.content.SaveAbout(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar informações")
	}
	return c.JSON(http.StatusOK, about)
}

func (cc *ContentController) GetSettings(c echo.Context) error {
	settings, err := cc.content.GetSettings(c.Request().Context())
	if err != nil {
		return fail(c, cc.log, err, "Erro ao buscar configurações")
	}
	return c.JSON(http.StatusOK, settings)
}

func (cc *ContentController) SaveSettings(c echo.Context) error {
	var in models.SettingsInput
	if err := bindBody(c, &in); err != nil {
		return fail(c, cc.log, err, msgInternal)
	}
	settings, err := cc.content.SaveSettings(c.Request().Context(), in)
	if err != nil {
		return fail(c, cc.log, err, "Erro ao atualizar configurações")
	}
	return c.JSON(http.StatusOK, settings)
}
