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
	"github.com/WenderAlvesSantos/api-aecac/security"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// Messages shared by the login flows.
const (
	msgCredentialsRequired = "Email e senha são obrigatórios"
	msgInvalidCredentials  = "Credenciais inválidas"
	msgNoPassword          = "Usuário sem senha cadastrada. Entre em contato com o administrador."
	msgPasswordNeedsReset  = "Senha do usuário precisa ser redefinida. Entre em contato com o administrador."
	msgRegisterRequired    = "Email, senha e nome são obrigatórios"
	msgUserNotFound        = "Usuário não encontrado"
	msgEmailInUse          = "Email já está em uso"
)

// TokenSigner issues API tokens.
type TokenSigner interface {
	Issue(accountID string) (string, error)
}

// PendingLinker turns pending notifications of an email into real ones.
type PendingLinker interface {
	LinkPending(ctx context.Context, email string, accountID primitive.ObjectID) error
}

type AuthService struct {
	accounts  AccountStore
	companies CompanyStore
	pending   PendingLinker
	mailer    Mailer
	tokens    TokenSigner
	log       *zap.Logger
}

func NewAuthService(accounts AccountStore, companies CompanyStore, pending PendingLinker, mailer Mailer, tokens TokenSigner, log *zap.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		companies: companies,
		pending:   pending,
		mailer:    mailer,
		tokens:    tokens,
		log:       log,
	}
}

// checkStoredPassword refuses missing or non-bcrypt credentials before comparing.
func checkStoredPassword(stored, password string) error {
	if stored == "" {
		return apperrors.Unauthorized(msgNoPassword)
	}
	if !security.IsBcryptHash(stored) {
		return apperrors.Unauthorized(msgPasswordNeedsReset)
	}
	if !security.CheckPassword(stored, password) {
		return apperrors.Unauthorized(msgInvalidCredentials)
	}
	return nil
}

func (s *AuthService) respond(view models.AccountView) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(view.ID)
	if err != nil {
		return nil, err
	}
	view.CreatedAt = nil
	return &models.AuthResponse{Token: token, User: view}, nil
}

// Login authenticates an administrator.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.Validation(msgCredentialsRequired)
	}
	admin, err := s.accounts.FindAdminByEmail(ctx, utils.NormalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := checkStoredPassword(admin.Password, req.Password); err != nil {
		s.log.Info("admin login rejected", zap.String("email", admin.Email), zap.String("reason", apperrors.Message(err, "")))
		return nil, err
	}
	return s.respond(admin.View())
}

// LoginAssociate authenticates an associate whose company is still approved.
func (s *AuthService) LoginAssociate(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.Validation(msgCredentialsRequired)
	}
	associate, err := s.accounts.FindAssociateByEmail(ctx, utils.NormalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized("Credenciais inválidas ou você não é um associado")
	}
	if err != nil {
		return nil, err
	}
	if err := checkStoredPassword(associate.Password, req.Password); err != nil {
		return nil, err
	}

	company, err := s.companies.FindByID(ctx, associate.CompanyID)
	switch {
	case errors.Is(err, repositories.ErrNotFound) || (err == nil && company.Status != models.CompanyApproved):
		return nil, apperrors.Forbidden("Sua empresa não está mais aprovada. Entre em contato com o administrador.")
	case err != nil:
		s.log.Warn("company check failed during associate login", zap.Error(err))
	}
	return s.respond(associate.View())
}

// RegisterAdmin creates another administrator.
func (s *AuthService) RegisterAdmin(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	admin, err := s.createAdmin(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.respond(admin.View())
}

func (s *AuthService) createAdmin(ctx context.Context, req models.RegisterRequest) (*models.Admin, error) {
	email := utils.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperrors.Validation(msgRegisterRequired)
	}
	taken, err := s.accounts.EmailTaken(ctx, email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Duplicate("Usuário já existe")
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &models.Admin{Email: email, Password: hash, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.accounts.InsertAdmin(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Duplicate("Usuário já existe")
		}
		return nil, err
	}
	return admin, nil
}

// RegisterAssociate creates the account of an approved company. Linking
// pending notifications and the welcome email never fail the registration.
func (s *AuthService) RegisterAssociate(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := utils.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, apperrors.Validation(msgRegisterRequired)
	}
	taken, err := s.accounts.EmailTaken(ctx, email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Duplicate("Este email já está cadastrado")
	}
	company, err := s.companies.FindApprovedByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Forbidden("Email não encontrado em empresa aprovada. Verifique se sua empresa foi aprovada ou entre em contato com o administrador.")
	}
	if err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	associate := &models.Associate{
		Email:     email,
		Password:  hash,
		Name:      name,
		CompanyID: company.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.InsertAssociate(ctx, associate); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Duplicate("Este email já está cadastrado")
		}
		return nil, err
	}

	if err := s.pending.LinkPending(ctx, email, associate.ID); err != nil {
		s.log.Warn("failed to link pending notifications", zap.String("email", email), zap.Error(err))
	}
	if err := s.mailer.SendWelcome(ctx, name, email, company); err != nil {
		s.log.Warn("failed to send welcome email", zap.String("email", email), zap.Error(err))
	}
	return s.respond(associate.View())
}

// Profile returns the account behind id.
func (s *AuthService) Profile(ctx context.Context, id Identity) (*models.AccountView, error) {
	switch v := id.(type) {
	case AssociateIdentity:
		associate, err := s.accounts.FindAssociateByID(ctx, v.ID)
		if err != nil {
			return nil, notFoundAs(err, msgUserNotFound)
		}
		view := associate.View()
		view.CreatedAt = nil
		return &view, nil
	case AdminIdentity:
		admin, err := s.accounts.FindAdminByID(ctx, v.ID)
		if err != nil {
			return nil, notFoundAs(err, msgUserNotFound)
		}
		view := admin.View()
		view.CreatedAt = nil
		return &view, nil
	default:
		return nil, apperrors.NotFound(msgUserNotFound)
	}
}

// UpdateProfile changes name, email or password of the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, id Identity, req models.UpdateProfileRequest) (*models.AccountView, error) {
	var currentEmail, currentHash string
	switch v := id.(type) {
	case AssociateIdentity:
		associate, err := s.accounts.FindAssociateByID(ctx, v.ID)
		if err != nil {
			return nil, notFoundAs(err, msgUserNotFound)
		}
		currentEmail, currentHash = associate.Email, associate.Password
	case AdminIdentity:
		admin, err := s.accounts.FindAdminByID(ctx, v.ID)
		if err != nil {
			return nil, notFoundAs(err, msgUserNotFound)
		}
		currentEmail, currentHash = admin.Email, admin.Password
	default:
		return nil, apperrors.NotFound(msgUserNotFound)
	}

	set := bson.M{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		if email != "" && email != utils.NormalizeEmail(currentEmail) {
			taken, err := s.accounts.EmailTaken(ctx, email, id.AccountID())
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.Duplicate(msgEmailInUse)
			}
			set["email"] = email
		}
	}
	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, apperrors.Validation("Senha atual é obrigatória para alterar a senha")
		}
		if !security.IsBcryptHash(currentHash) || !security.CheckPassword(currentHash, req.CurrentPassword) {
			return nil, apperrors.Unauthorized("Senha atual incorreta")
		}
		hash, err := security.HashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}

	var view models.AccountView
	switch v := id.(type) {
	case AssociateIdentity:
		associate, err := s.accounts.UpdateAssociate(ctx, v.ID, set)
		if err != nil {
			return nil, storeErr(err, msgUserNotFound, msgEmailInUse)
		}
		view = associate.View()
	case AdminIdentity:
		admin, err := s.accounts.UpdateAdmin(ctx, v.ID, set)
		if err != nil {
			return nil, storeErr(err, msgUserNotFound, msgEmailInUse)
		}
		view = admin.View()
	}
	view.CreatedAt = nil
	return &view, nil
}

// notFoundAs converts a repository miss into a NotFound error with msg.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return err
}

// storeErr also maps unique index violations to a Duplicate error.
func storeErr(err error, notFound, duplicate string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperrors.Duplicate(duplicate)
	}
	return notFoundAs(err, notFound)
}
