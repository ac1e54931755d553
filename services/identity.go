package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

// Identity is who a request acts as. It is one of AdminIdentity,
// AssociateIdentity or UnknownIdentity.
type Identity interface {
	AccountID() primitive.ObjectID
	identity()
}

type AdminIdentity struct {
	ID primitive.ObjectID
}

type AssociateIdentity struct {
	ID        primitive.ObjectID
	CompanyID primitive.ObjectID
}

// UnknownIdentity is an anonymous request or a token naming no account.
type UnknownIdentity struct{}

func (a AdminIdentity) AccountID() primitive.ObjectID     { return a.ID }
func (a AssociateIdentity) AccountID() primitive.ObjectID { return a.ID }
func (UnknownIdentity) AccountID() primitive.ObjectID     { return primitive.NilObjectID }

func (AdminIdentity) identity()     {}
func (AssociateIdentity) identity() {}
func (UnknownIdentity) identity()   {}

// IsAdmin reports whether id is an administrator.
func IsAdmin(id Identity) bool {
	_, ok := id.(AdminIdentity)
	return ok
}

// VisibilityOf maps an identity to its listing scope.
func VisibilityOf(id Identity) models.Visibility {
	switch v := id.(type) {
	case AssociateIdentity:
		return models.Visibility{Scope: models.ScopeCompany, CompanyID: v.CompanyID}
	case AdminIdentity:
		return models.Visibility{Scope: models.ScopeHouse}
	default:
		return models.Visibility{Scope: models.ScopePublic}
	}
}

type accountFinder interface {
	FindAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindAssociateByID(ctx context.Context, id primitive.ObjectID) (*models.Associate, error)
}

// IdentityResolver turns the account id of a token into an Identity.
type IdentityResolver struct {
	accounts accountFinder
}

func NewIdentityResolver(accounts accountFinder) *IdentityResolver {
	return &IdentityResolver{accounts: accounts}
}

// Resolve probes associates first, then administrators. A malformed or
// unknown id yields UnknownIdentity; only storage failures return an error.
func (r *IdentityResolver) Resolve(ctx context.Context, accountID string) (Identity, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return UnknownIdentity{}, nil
	}

	associate, err := r.accounts.FindAssociateByID(ctx, id)
	switch {
	case err == nil:
		return AssociateIdentity{ID: associate.ID, CompanyID: associate.CompanyID}, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	admin, err := r.accounts.FindAdminByID(ctx, id)
	switch {
	case err == nil:
		return AdminIdentity{ID: admin.ID}, nil
	case errors.Is(err, repositories.ErrNotFound):
		return UnknownIdentity{}, nil
	default:
		return nil, err
	}
}

// contactOf returns name and email of the signed-in account.
func contactOf(ctx context.Context, accounts accountFinder, who Identity) (name, email string, err error) {
	switch v := who.(type) {
	case AssociateIdentity:
		associate, err := accounts.FindAssociateByID(ctx, v.ID)
		if err != nil {
			return "", "", notFoundAs(err, msgUserNotFound)
		}
		return associate.Name, associate.Email, nil
	case AdminIdentity:
		admin, err := accounts.FindAdminByID(ctx, v.ID)
		if err != nil {
			return "", "", notFoundAs(err, msgUserNotFound)
		}
		return admin.Name, admin.Email, nil
	default:
		return "", "", apperrors.Unauthorized("Token inválido")
	}
}
