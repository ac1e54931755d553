package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Redemption origins.
const (
	OriginPublic  = "publico"
	OriginPrivate = "privado"
)

// Redemption records one claim of a benefit. Account redemptions live in
// "resgates" keyed by AccountID, guest redemptions in "resgates_publicos" keyed by CPF.
type Redemption struct {
	ID         primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	BenefitID  primitive.ObjectID  `json:"beneficioId" bson:"beneficioId"`
	Code       string              `json:"codigo" bson:"codigo"`
	AccountID  *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Name       string              `json:"nome" bson:"nome"`
	CPF        string              `json:"cpf,omitempty" bson:"cpf,omitempty"`
	Phone      string              `json:"telefone,omitempty" bson:"telefone,omitempty"`
	Email      string              `json:"email,omitempty" bson:"email,omitempty"`
	RedeemedAt time.Time           `json:"dataResgate" bson:"dataResgate"`
}

// RedeemRequest is the body of both redemption flows; the account flow only reads Code.
type RedeemRequest struct {
	Code  string `json:"codigo" validate:"max=64"`
	Name  string `json:"nome" validate:"max=200"`
	CPF   string `json:"cpf" validate:"max=20"`
	Phone string `json:"telefone" validate:"max=30"`
}

// BenefitTerms is the benefit excerpt returned after a redemption.
type BenefitTerms struct {
	Title       string      `json:"titulo"`
	Description string      `json:"descricao"`
	Discount    interface{} `json:"desconto"`
	Conditions  string      `json:"condicoes"`
}

type RedeemResponse struct {
	Message string       `json:"message"`
	Code    string       `json:"codigo"`
	Benefit BenefitTerms `json:"beneficio"`
}

// RedemptionView is a redemption listed for the owning company.
type RedemptionView struct {
	Redemption
	Origin  string           `json:"tipo"`
	Benefit *BenefitHeadline `json:"beneficio"`
}

type BenefitHeadline struct {
	Title string `json:"titulo"`
	Code  string `json:"codigo"`
}
