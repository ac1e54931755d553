package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

const (
	msgBenefitNotFound  = "Benefício não encontrado"
	msgBenefitCodeTaken = "Este código já está em uso"
	msgInvalidDate      = "Data inválida"
	msgInvalidCompany   = "Empresa inválida"
)

type BenefitService struct {
	benefits  BenefitStore
	companies CompanyStore
	log       *zap.Logger
	now       Clock
}

func NewBenefitService(benefits BenefitStore, companies CompanyStore, log *zap.Logger) *BenefitService {
	return &BenefitService{benefits: benefits, companies: companies, log: log, now: time.Now}
}

// List returns the benefits visible to who. Expired benefits are switched
// off first so the public branch never shows them.
func (s *BenefitService) List(ctx context.Context, who Identity) ([]models.BenefitView, error) {
	today := utils.StartOfDay(s.now())
	if n, err := s.benefits.DeactivateExpired(ctx, today); err != nil {
		s.log.Warn("failed to deactivate expired benefits", zap.Error(err))
	} else if n > 0 {
		metrics.ExpiredDeactivated.WithLabelValues(repositories.CollBenefits).Add(float64(n))
	}

	benefits, err := s.benefits.List(ctx, VisibilityOf(who), today)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(benefits))
	for _, b := range benefits {
		if b.CompanyID != nil {
			ids = append(ids, *b.CompanyID)
		}
	}
	owners := summaries(ctx, s.companies, ids, s.log)

	views := make([]models.BenefitView, 0, len(benefits))
	for i := range benefits {
		b := benefits[i]
		view := models.BenefitView{Benefit: b, AvailableQuantity: b.Available()}
		if b.CompanyID != nil {
			view.Company = owners[*b.CompanyID]
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *BenefitService) Get(ctx context.Context, id primitive.ObjectID) (*models.BenefitView, error) {
	b, err := s.benefits.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgBenefitNotFound)
	}
	view := &models.BenefitView{Benefit: *b, AvailableQuantity: b.Available()}
	if b.CompanyID != nil {
		if owner, err := s.companies.FindByID(ctx, *b.CompanyID); err == nil {
			view.Company = &models.CompanySummary{ID: owner.ID, Name: owner.Name, Image: owner.Image}
		}
	}
	return view, nil
}

// Create stores a benefit. Associates always create for their own company;
// an administrator without empresaId creates a house benefit.
func (s *BenefitService) Create(ctx context.Context, who Identity, in models.BenefitInput) (*models.Benefit, error) {
	if str(in.Title) == "" || str(in.Description) == "" {
		return nil, apperrors.Validation("Título e descrição são obrigatórios")
	}
	code := utils.NormalizeCode(str(in.Code))
	if code == "" {
		return nil, apperrors.Validation("Código do benefício é obrigatório")
	}

	var owner *primitive.ObjectID
	switch v := who.(type) {
	case AssociateIdentity:
		companyID := v.CompanyID
		owner = &companyID
	case AdminIdentity:
		id, err := s.companyRef(ctx, in.CompanyID)
		if err != nil {
			return nil, err
		}
		owner = id
	default:
		return nil, apperrors.Forbidden("Acesso negado")
	}

	taken, err := s.benefits.CodeTaken(ctx, code, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Duplicate(msgBenefitCodeTaken)
	}

	now := s.now()
	benefit := &models.Benefit{
		Title:       str(in.Title),
		Description: str(in.Description),
		CompanyID:   owner,
		Code:        code,
		Discount:    in.Discount,
		Conditions:  str(in.Conditions),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Active != nil {
		benefit.Active = *in.Active
	}
	if in.ExpiresAt != nil && str(in.ExpiresAt) != "" {
		t, err := utils.ParseDate(*in.ExpiresAt)
		if err != nil {
			return nil, apperrors.Validation(msgInvalidDate)
		}
		benefit.ExpiresAt = &t
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperrors.Validation("Quantidade inválida")
		}
		if *in.Quantity > 0 {
			q := *in.Quantity
			benefit.Quantity = &q
		}
	}
	if str(in.Image) != "" {
		benefit.Image = utils.DownscaleImage(in.Image)
	}

	if err := s.benefits.Insert(ctx, benefit); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Duplicate(msgBenefitCodeTaken)
		}
		return nil, err
	}
	return benefit, nil
}

// Update edits a benefit. Only administrators may move it between owners.
func (s *BenefitService) Update(ctx context.Context, who Identity, id primitive.ObjectID, in models.BenefitInput) (*models.Benefit, error) {
	current, err := s.benefits.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgBenefitNotFound)
	}
	if err := authorizeOwner(who, current.CompanyID, "Você só pode editar benefícios da sua empresa"); err != nil {
		return nil, err
	}

	set := bson.M{}
	setIfNonEmpty(set, "titulo", in.Title)
	setIfNonEmpty(set, "descricao", in.Description)
	setIfPresent(set, "condicoes", in.Conditions)
	if in.Discount != nil {
		set["desconto"] = in.Discount
	}
	if in.Active != nil {
		set["ativo"] = *in.Active
	}
	if in.Code != nil && str(in.Code) != "" {
		code := utils.NormalizeCode(*in.Code)
		if code != current.Code {
			taken, err := s.benefits.CodeTaken(ctx, code, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.Duplicate(msgBenefitCodeTaken)
			}
			set["codigo"] = code
		}
	}
	if in.ExpiresAt != nil {
		if str(in.ExpiresAt) == "" {
			set["validade"] = nil
		} else {
			t, err := utils.ParseDate(*in.ExpiresAt)
			if err != nil {
				return nil, apperrors.Validation(msgInvalidDate)
			}
			set["validade"] = t
		}
	}
	if in.Quantity != nil {
		switch {
		case *in.Quantity < 0:
			return nil, apperrors.Validation("Quantidade inválida")
		case *in.Quantity == 0:
			set["quantidade"] = nil
		default:
			set["quantidade"] = *in.Quantity
		}
	}
	if in.Image != nil {
		if str(in.Image) == "" {
			set["imagem"] = nil
		} else {
			set["imagem"] = utils.DownscaleDataURL(*in.Image)
		}
	}
	if IsAdmin(who) && in.CompanyID != nil {
		owner, err := s.companyRef(ctx, in.CompanyID)
		if err != nil {
			return nil, err
		}
		set["empresaId"] = owner
	}

	benefit, err := s.benefits.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, msgBenefitNotFound, msgBenefitCodeTaken)
	}
	return benefit, nil
}

func (s *BenefitService) Delete(ctx context.Context, who Identity, id primitive.ObjectID) error {
	current, err := s.benefits.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, msgBenefitNotFound)
	}
	if err := authorizeOwner(who, current.CompanyID, "Você só pode excluir benefícios da sua empresa"); err != nil {
		return err
	}
	return notFoundAs(s.benefits.Delete(ctx, id), msgBenefitNotFound)
}

// QRCode renders the redemption code of a benefit as a PNG.
func (s *BenefitService) QRCode(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	b, err := s.benefits.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgBenefitNotFound)
	}
	return utils.QRCodePNG(b.Code)
}

// companyRef resolves the empresaId chosen by an administrator. Empty means
// a house record.
func (s *BenefitService) companyRef(ctx context.Context, raw *string) (*primitive.ObjectID, error) {
	return resolveCompanyRef(ctx, s.companies, raw)
}

func resolveCompanyRef(ctx context.Context, companies CompanyStore, raw *string) (*primitive.ObjectID, error) {
	hex := str(raw)
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidCompany)
	}
	if _, err := companies.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Validation(msgCompanyNotFound)
		}
		return nil, err
	}
	return &id, nil
}

// authorizeOwner lets administrators through and associates only onto
// records of their own company.
func authorizeOwner(who Identity, owner *primitive.ObjectID, msg string) error {
	switch v := who.(type) {
	case AdminIdentity:
		return nil
	case AssociateIdentity:
		if owner != nil && *owner == v.CompanyID {
			return nil
		}
	}
	return apperrors.Forbidden(msg)
}

// summaries loads owner summaries for annotation. A failure only drops the
// annotation.
func summaries(ctx context.Context, companies CompanyStore, ids []primitive.ObjectID, log *zap.Logger) map[primitive.ObjectID]*models.CompanySummary {
	if len(ids) == 0 {
		return nil
	}
	owners, err := companies.Summaries(ctx, dedupe(ids))
	if err != nil {
		log.Warn("failed to load company summaries", zap.Error(err))
		return nil
	}
	return owners
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
