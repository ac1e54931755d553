package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

const (
	msgCompanyNotFound  = "Empresa não encontrada"
	msgCNPJInvalid      = "CNPJ inválido. Deve conter 14 dígitos."
	msgCNPJTaken        = "Já existe uma empresa cadastrada com este CNPJ."
	msgInvalidID        = "ID inválido"
	msgCompanyProtected = "Apenas administradores podem alterar nome, categoria e CNPJ"
)

// ApprovalNotifier tells a company's account about its approval.
type ApprovalNotifier interface {
	NotifyCompanyApproved(ctx context.Context, company *models.Company) error
}

type CompanyService struct {
	companies CompanyStore
	mailer    Mailer
	notifier  ApprovalNotifier
	log       *zap.Logger
	now       Clock
}

func NewCompanyService(companies CompanyStore, mailer Mailer, notifier ApprovalNotifier, log *zap.Logger) *CompanyService {
	return &CompanyService{companies: companies, mailer: mailer, notifier: notifier, log: log, now: time.Now}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// Create registers a company submitted by the public sign-up form. It starts pending.
func (s *CompanyService) Create(ctx context.Context, in models.CompanyInput) (*models.CreateCompanyResponse, error) {
	if str(in.Name) == "" || str(in.Category) == "" || str(in.Description) == "" || str(in.CNPJ) == "" {
		return nil, apperrors.Validation("Campos obrigatórios faltando: nome, categoria, descrição e CNPJ são obrigatórios")
	}
	cnpj, ok := utils.NormalizeCNPJ(*in.CNPJ)
	if !ok {
		return nil, apperrors.Validation(msgCNPJInvalid)
	}
	exists, err := s.companies.ExistsByCNPJ(ctx, cnpj)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict(msgCNPJTaken)
	}

	now := s.now()
	company := &models.Company{
		Name:        str(in.Name),
		Category:    str(in.Category),
		Description: str(in.Description),
		CNPJ:        cnpj,
		CEP:         utils.OnlyDigits(str(in.CEP)),
		Phone:       str(in.Phone),
		Whatsapp:    str(in.Whatsapp),
		Email:       utils.NormalizeEmail(str(in.Email)),
		Address:     str(in.Address),
		Responsible: str(in.Responsible),
		Site:        str(in.Site),
		Facebook:    str(in.Facebook),
		Instagram:   str(in.Instagram),
		Linkedin:    str(in.Linkedin),
		Status:      models.CompanyPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if str(in.Image) != "" {
		company.Image = utils.DownscaleImage(in.Image)
	}
	if err := s.companies.Insert(ctx, company); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(msgCNPJTaken)
		}
		return nil, err
	}
	return &models.CreateCompanyResponse{
		Company: company,
		Message: "Cadastro realizado com sucesso! Aguarde a aprovação do administrador.",
	}, nil
}

// ListApproved returns the public directory.
func (s *CompanyService) ListApproved(ctx context.Context) ([]models.Company, error) {
	return s.companies.ListApproved(ctx)
}

// ListByStatus returns companies awaiting (or past) review. Empty means pending.
func (s *CompanyService) ListByStatus(ctx context.Context, status string) ([]models.Company, error) {
	switch status {
	case "":
		status = models.CompanyPending
	case "todos", "todas":
		status = ""
	case models.CompanyPending, models.CompanyApproved, models.CompanyRejected:
	default:
		return nil, apperrors.Validation("Status inválido")
	}
	return s.companies.ListByStatus(ctx, status)
}

func (s *CompanyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgCompanyNotFound)
	}
	return company, nil
}

// Update edits a company profile. Administrators may change anything;
// an associate only their own company and never its name, category or CNPJ.
func (s *CompanyService) Update(ctx context.Context, who Identity, id primitive.ObjectID, in models.CompanyInput) (*models.Company, error) {
	current, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgCompanyNotFound)
	}

	switch v := who.(type) {
	case AdminIdentity:
	case AssociateIdentity:
		if v.CompanyID != id {
			return nil, apperrors.Forbidden("Você só pode editar sua própria empresa")
		}
		if changed(in.Name, current.Name) || changed(in.Category, current.Category) {
			return nil, apperrors.Forbidden(msgCompanyProtected)
		}
		if in.CNPJ != nil && str(in.CNPJ) != "" && utils.OnlyDigits(*in.CNPJ) != current.CNPJ {
			return nil, apperrors.Forbidden(msgCompanyProtected)
		}
	default:
		return nil, apperrors.Forbidden("Acesso negado")
	}

	set := bson.M{}
	setIfNonEmpty(set, "nome", in.Name)
	setIfNonEmpty(set, "categoria", in.Category)
	setIfNonEmpty(set, "descricao", in.Description)
	setIfPresent(set, "telefone", in.Phone)
	setIfPresent(set, "whatsapp", in.Whatsapp)
	setIfPresent(set, "endereco", in.Address)
	setIfPresent(set, "responsavel", in.Responsible)
	setIfPresent(set, "site", in.Site)
	setIfPresent(set, "facebook", in.Facebook)
	setIfPresent(set, "instagram", in.Instagram)
	setIfPresent(set, "linkedin", in.Linkedin)
	if in.Email != nil {
		set["email"] = utils.NormalizeEmail(*in.Email)
	}
	if in.CEP != nil {
		set["cep"] = utils.OnlyDigits(*in.CEP)
	}
	if in.CNPJ != nil && str(in.CNPJ) != "" {
		cnpj, ok := utils.NormalizeCNPJ(*in.CNPJ)
		if !ok {
			return nil, apperrors.Validation(msgCNPJInvalid)
		}
		set["cnpj"] = cnpj
	}
	if in.Image != nil {
		if str(in.Image) == "" {
			set["imagem"] = nil
		} else {
			set["imagem"] = utils.DownscaleDataURL(*in.Image)
		}
	}

	company, err := s.companies.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Conflict(msgCNPJTaken)
		}
		return nil, notFoundAs(err, msgCompanyNotFound)
	}
	return company, nil
}

func (s *CompanyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.companies.Delete(ctx, id), msgCompanyNotFound)
}

// Review approves or rejects a pending company. Only pending companies can
// be reviewed; the decision is final. Email and notification failures are
// logged and never undo the decision.
func (s *CompanyService) Review(ctx context.Context, reviewer primitive.ObjectID, req models.ReviewRequest) (*models.ReviewResponse, error) {
	if strings.TrimSpace(req.CompanyID) == "" || strings.TrimSpace(req.Action) == "" {
		return nil, apperrors.Validation("ID da empresa e ação são obrigatórios")
	}
	var target, verb string
	switch req.Action {
	case models.ReviewApprove:
		target, verb = models.CompanyApproved, "aprovada"
	case models.ReviewReject:
		target, verb = models.CompanyRejected, "rejeitada"
	default:
		return nil, apperrors.Validation(`Ação deve ser "aprovar" ou "rejeitar"`)
	}
	id, err := primitive.ObjectIDFromHex(req.CompanyID)
	if err != nil {
		return nil, apperrors.Validation(msgInvalidID)
	}

	company, err := s.companies.Transition(ctx, id, models.CompanyPending, target, reviewer, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		if _, findErr := s.companies.FindByID(ctx, id); findErr != nil {
			return nil, notFoundAs(findErr, msgCompanyNotFound)
		}
		return nil, apperrors.Conflict("Empresa já foi analisada")
	}
	if err != nil {
		return nil, err
	}

	if company.Email != "" {
		var mailErr error
		if target == models.CompanyApproved {
			mailErr = s.mailer.SendCompanyApproved(ctx, company)
		} else {
			mailErr = s.mailer.SendCompanyRejected(ctx, company)
		}
		if mailErr != nil {
			s.log.Warn("failed to send review email", zap.String("company", company.ID.Hex()), zap.Error(mailErr))
		}
		if target == models.CompanyApproved {
			if err := s.notifier.NotifyCompanyApproved(ctx, company); err != nil {
				s.log.Warn("failed to notify approved company", zap.String("company", company.ID.Hex()), zap.Error(err))
			}
		}
	}

	return &models.ReviewResponse{
		Message: "Empresa " + verb + " com sucesso",
		Company: company,
	}, nil
}

// changed reports whether a non-empty input differs from the stored value.
func changed(in *string, current string) bool {
	v := str(in)
	return v != "" && v != current
}

func setIfNonEmpty(set bson.M, key string, v *string) {
	if s := str(v); s != "" {
		set[key] = s
	}
}

func setIfPresent(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = strings.TrimSpace(*v)
	}
}
