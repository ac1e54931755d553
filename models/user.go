package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account kinds as exposed in the "tipo" field of auth responses.
const (
	AccountAdmin     = "admin"
	AccountAssociate = "associado"
)

// Admin is an administrator account (collection "users").
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"` // stored lower-cased
	Password  string             `json:"-" bson:"password"`  // bcrypt hash
	Name      string             `json:"name" bson:"name"`
	Tipo      string             `json:"tipo" bson:"tipo,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Associate is a member account owned by exactly one company (collection "users_associados").
type Associate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Name      string             `json:"name" bson:"name"`
	CompanyID primitive.ObjectID `json:"empresaId" bson:"empresaId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AccountView is the public shape of either account kind.
type AccountView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Tipo      string     `json:"tipo"`
	CompanyID string     `json:"empresaId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// View converts an admin to its public shape.
func (a *Admin) View() AccountView {
	created := a.CreatedAt
	return AccountView{ID: a.ID.Hex(), Email: a.Email, Name: a.Name, Tipo: AccountAdmin, CreatedAt: &created}
}

// View converts an associate to its public shape.
func (a *Associate) View() AccountView {
	created := a.CreatedAt
	return AccountView{
		ID:        a.ID.Hex(),
		Email:     a.Email,
		Name:      a.Name,
		Tipo:      AccountAssociate,
		CompanyID: a.CompanyID.Hex(),
		CreatedAt: &created,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of writes that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}
