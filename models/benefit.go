package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Benefit is a discount offered to the public through a redemption code
// (collection "beneficios"). A nil CompanyID marks a house benefit.
type Benefit struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Title       string              `json:"titulo" bson:"titulo"`
	Description string              `json:"descricao" bson:"descricao"`
	CompanyID   *primitive.ObjectID `json:"empresaId" bson:"empresaId"`
	Code        string              `json:"codigo" bson:"codigo"`     // upper-cased, unique
	Discount    interface{}         `json:"desconto" bson:"desconto"` // "10%", 15, ...
	Conditions  string              `json:"condicoes" bson:"condicoes"`
	ExpiresAt   *time.Time          `json:"validade" bson:"validade"`
	Image       *string             `json:"imagem" bson:"imagem"`
	Quantity    *int                `json:"quantidade" bson:"quantidade"` // nil = unlimited
	Redeemed    int                 `json:"resgatados" bson:"resgatados"` // reserved atomically
	Active      bool                `json:"ativo" bson:"ativo"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Available returns the remaining units, or nil when unlimited.
func (b *Benefit) Available() *int {
	if b.Quantity == nil {
		return nil
	}
	left := *b.Quantity - b.Redeemed
	if left < 0 {
		left = 0
	}
	return &left
}

// BenefitView is a benefit annotated at read time.
type BenefitView struct {
	Benefit
	AvailableQuantity *int           `json:"quantidadeDisponivel"`
	Company           *CompanySummary `json:"empresa,omitempty"`
}

// BenefitInput is the body of benefit creation and update.
type BenefitInput struct {
	Title       *string     `json:"titulo"`
	Description *string     `json:"descricao"`
	CompanyID   *string     `json:"empresaId"`
	Code        *string     `json:"codigo"`
	Discount    interface{} `json:"desconto"`
	Conditions  *string     `json:"condicoes"`
	ExpiresAt   *string     `json:"validade"` // "" clears
	Image       *string     `json:"imagem"`
	Quantity    *int        `json:"quantidade"` // 0 clears
	Active      *bool       `json:"ativo"`
}
