package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/security"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

// UserService manages administrator accounts.
type UserService struct {
	accounts AccountStore
	auth     *AuthService
}

func NewUserService(accounts AccountStore, auth *AuthService) *UserService {
	return &UserService{accounts: accounts, auth: auth}
}

func (s *UserService) List(ctx context.Context) ([]models.Admin, error) {
	return s.accounts.ListAdmins(ctx)
}

func (s *UserService) Create(ctx context.Context, req models.RegisterRequest) (*models.Admin, error) {
	return s.auth.createAdmin(ctx, req)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.accounts.FindAdminByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound)
	}
	return admin, nil
}

func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateAdminRequest) (*models.Admin, error) {
	set := bson.M{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		email := utils.NormalizeEmail(*req.Email)
		taken, err := s.accounts.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Duplicate(msgEmailInUse)
		}
		set["email"] = email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}
	admin, err := s.accounts.UpdateAdmin(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, msgUserNotFound, msgEmailInUse)
	}
	return admin, nil
}

// Delete removes an administrator, refusing to remove the last one.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	total, err := s.accounts.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if total <= 1 {
		return apperrors.Validation("Não é possível deletar o último usuário")
	}
	return notFoundAs(s.accounts.DeleteAdmin(ctx, id), msgUserNotFound)
}
