package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

const (
	msgImageNotFound   = "Imagem não encontrada"
	msgMemberNotFound  = "Membro não encontrado"
	msgPartnerNotFound = "Parceiro não encontrado"
)

// ContentService manages the institutional pages: gallery, board, partners,
// about and settings. Free text is stripped of markup before it is stored.
type ContentService struct {
	gallery  GalleryStore
	board    ListStore[models.BoardMember]
	partners ListStore[models.Partner]
	about    SingletonStore[models.About]
	settings SingletonStore[models.Settings]
	now      Clock
}

func NewContentService(
	gallery GalleryStore,
	board ListStore[models.BoardMember],
	partners ListStore[models.Partner],
	about SingletonStore[models.About],
	settings SingletonStore[models.Settings],
) *ContentService {
	return &ContentService{
		gallery:  gallery,
		board:    board,
		partners: partners,
		about:    about,
		settings: settings,
		now:      time.Now,
	}
}

func clean(p *string) string {
	if p == nil {
		return ""
	}
	return utils.SanitizeText(*p)
}

func setClean(set bson.M, key string, p *string) {
	if p != nil {
		set[key] = utils.SanitizeText(*p)
	}
}

// Gallery

func (s *ContentService) ListGallery(ctx context.Context) ([]models.GalleryImage, error) {
	return s.gallery.List(ctx)
}

func (s *ContentService) GetImage(ctx context.Context, id primitive.ObjectID) (*models.GalleryImage, error) {
	img, err := s.gallery.FindByID(ctx, id)
	return img, notFoundAs(err, msgImageNotFound)
}

func (s *ContentService) CreateImage(ctx context.Context, in models.GalleryInput) (*models.GalleryImage, error) {
	if str(in.URL) == "" || clean(in.Title) == "" {
		return nil, apperrors.Validation("URL e título são obrigatórios")
	}
	now := s.now()
	img := &models.GalleryImage{
		ID:          primitive.NewObjectID(),
		URL:         utils.DownscaleDataURL(str(in.URL)),
		Title:       clean(in.Title),
		Description: clean(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Order != nil {
		img.Order = *in.Order
	}
	if err := s.gallery.Insert(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ContentService) UpdateImage(ctx context.Context, id primitive.ObjectID, in models.GalleryInput) (*models.GalleryImage, error) {
	set := bson.M{}
	if str(in.URL) != "" {
		set["url"] = utils.DownscaleDataURL(str(in.URL))
	}
	setClean(set, "title", in.Title)
	setClean(set, "description", in.Description)
	if in.Order != nil {
		set["order"] = *in.Order
	}
	img, err := s.gallery.Update(ctx, id, set)
	return img, notFoundAs(err, msgImageNotFound)
}

func (s *ContentService) DeleteImage(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.gallery.Delete(ctx, id), msgImageNotFound)
}

// ReorderGallery applies the positions of many images at once.
func (s *ContentService) ReorderGallery(ctx context.Context, req models.GalleryOrderRequest) error {
	if req.Images == nil {
		return apperrors.Validation("Lista de imagens inválida")
	}
	order := make(map[primitive.ObjectID]int, len(req.Images))
	for _, item := range req.Images {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ID))
		if err != nil {
			return apperrors.Validation(msgInvalidID)
		}
		order[id] = item.Order
	}
	return s.gallery.Reorder(ctx, order)
}

// Board

func (s *ContentService) ListBoard(ctx context.Context) ([]models.BoardMember, error) {
	return s.board.List(ctx)
}

func (s *ContentService) GetMember(ctx context.Context, id primitive.ObjectID) (*models.BoardMember, error) {
	m, err := s.board.FindByID(ctx, id)
	return m, notFoundAs(err, msgMemberNotFound)
}

func (s *ContentService) CreateMember(ctx context.Context, in models.BoardMemberInput) (*models.BoardMember, error) {
	if clean(in.Name) == "" || clean(in.Role) == "" {
		return nil, apperrors.Validation("Nome e cargo são obrigatórios")
	}
	now := s.now()
	m := &models.BoardMember{
		ID:        primitive.NewObjectID(),
		Name:      clean(in.Name),
		Role:      clean(in.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if str(in.Photo) != "" {
		m.Photo = utils.DownscaleImage(in.Photo)
	}
	if err := s.board.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContentService) UpdateMember(ctx context.Context, id primitive.ObjectID, in models.BoardMemberInput) (*models.BoardMember, error) {
	set := bson.M{}
	if v := clean(in.Name); v != "" {
		set["nome"] = v
	}
	if v := clean(in.Role); v != "" {
		set["cargo"] = v
	}
	if in.Photo != nil {
		if str(in.Photo) == "" {
			set["foto"] = nil
		} else {
			set["foto"] = utils.DownscaleDataURL(*in.Photo)
		}
	}
	m, err := s.board.Update(ctx, id, set)
	return m, notFoundAs(err, msgMemberNotFound)
}

func (s *ContentService) DeleteMember(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.board.Delete(ctx, id), msgMemberNotFound)
}

// Partners

func (s *ContentService) ListPartners(ctx context.Context) ([]models.Partner, error) {
	return s.partners.List(ctx)
}

func (s *ContentService) GetPartner(ctx context.Context, id primitive.ObjectID) (*models.Partner, error) {
	p, err := s.partners.FindByID(ctx, id)
	return p, notFoundAs(err, msgPartnerNotFound)
}

func (s *ContentService) CreatePartner(ctx context.Context, in models.PartnerInput) (*models.Partner, error) {
	if clean(in.Name) == "" {
		return nil, apperrors.Validation("Campos obrigatórios faltando")
	}
	now := s.now()
	p := &models.Partner{
		ID:          primitive.NewObjectID(),
		Name:        clean(in.Name),
		Category:    clean(in.Category),
		Description: clean(in.Description),
		Color:       str(in.Color),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Color == "" {
		p.Color = models.DefaultPartnerColor
	}
	if err := s.partners.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) UpdatePartner(ctx context.Context, id primitive.ObjectID, in models.PartnerInput) (*models.Partner, error) {
	set := bson.M{}
	if v := clean(in.Name); v != "" {
		set["nome"] = v
	}
	setClean(set, "categoria", in.Category)
	setClean(set, "descricao", in.Description)
	if v := str(in.Color); v != "" {
		set["cor"] = v
	}
	p, err := s.partners.Update(ctx, id, set)
	return p, notFoundAs(err, msgPartnerNotFound)
}

func (s *ContentService) DeletePartner(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.partners.Delete(ctx, id), msgPartnerNotFound)
}

// About and settings

func (s *ContentService) defaultAbout() *models.About {
	return &models.About{
		ID:        primitive.NewObjectID(),
		Values:    []string{},
		Goals:     []string{},
		UpdatedAt: s.now(),
	}
}

func (s *ContentService) GetAbout(ctx context.Context) (*models.About, error) {
	return s.about.Get(ctx, s.defaultAbout)
}

func (s *ContentService) SaveAbout(ctx context.Context, in models.AboutInput) (*models.About, error) {
	set := bson.M{}
	setClean(set, "historia", in.History)
	setClean(set, "missao", in.Mission)
	setClean(set, "visao", in.Vision)
	if in.Values != nil {
		set["valores"] = cleanList(in.Values)
	}
	if in.Goals != nil {
		set["objetivos"] = cleanList(in.Goals)
	}
	return s.about.Save(ctx, set)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := utils.SanitizeText(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *ContentService) defaultSettings() *models.Settings {
	return &models.Settings{
		ID:         primitive.NewObjectID(),
		MonthlyFee: models.DefaultMonthlyFee,
		UpdatedAt:  s.now(),
	}
}

func (s *ContentService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.settings.Get(ctx, s.defaultSettings)
}

func (s *ContentService) SaveSettings(ctx context.Context, in models.SettingsInput) (*models.Settings, error) {
	set := bson.M{}
	if in.Contact != nil {
		set["contato"] = models.ContactInfo{
			Phone:   strings.TrimSpace(in.Contact.Phone),
			Email:   utils.NormalizeEmail(in.Contact.Email),
			Address: utils.SanitizeText(in.Contact.Address),
		}
	}
	if in.Social != nil {
		set["redesSociais"] = models.SocialLinks{
			Facebook:  strings.TrimSpace(in.Social.Facebook),
			Instagram: strings.TrimSpace(in.Social.Instagram),
			Linkedin:  strings.TrimSpace(in.Social.Linkedin),
		}
	}
	if in.MonthlyFee != nil {
		if *in.MonthlyFee < 0 {
			return nil, apperrors.Validation("Valor da mensalidade inválido")
		}
		set["valorMensalidade"] = *in.MonthlyFee
	}
	return s.settings.Save(ctx, set)
}
