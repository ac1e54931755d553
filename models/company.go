package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company approval states.
const (
	CompanyPending  = "pendente"
	CompanyApproved = "aprovado"
	CompanyRejected = "rejeitado"
)

// Company is a member company (collection "empresas").
type Company struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name        string              `json:"nome" bson:"nome"`
	Category    string              `json:"categoria" bson:"categoria"`
	Description string              `json:"descricao" bson:"descricao"`
	CNPJ        string              `json:"cnpj" bson:"cnpj"` // 14 digits
	Phone       string              `json:"telefone" bson:"telefone"`
	Whatsapp    string              `json:"whatsapp" bson:"whatsapp"`
	Email       string              `json:"email" bson:"email"` // lower-cased; associate accounts register with it
	Address     string              `json:"endereco" bson:"endereco"`
	CEP         string              `json:"cep" bson:"cep"` // 8 digits or empty
	Responsible string              `json:"responsavel" bson:"responsavel"`
	Image       *string             `json:"imagem" bson:"imagem"` // data URL or remote URL
	Site        string              `json:"site" bson:"site"`
	Facebook    string              `json:"facebook" bson:"facebook"`
	Instagram   string              `json:"instagram" bson:"instagram"`
	Linkedin    string              `json:"linkedin" bson:"linkedin"`
	Status      string              `json:"status" bson:"status"`
	ApprovedAt  *time.Time          `json:"aprovadoEm,omitempty" bson:"aprovadoEm,omitempty"`
	ApprovedBy  *primitive.ObjectID `json:"aprovadoPor,omitempty" bson:"aprovadoPor,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CompanySummary is the denormalized owner shown next to benefits and activities.
type CompanySummary struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id"`
	Name  string             `json:"nome" bson:"nome"`
	Image *string            `json:"imagem" bson:"imagem"`
}

// CompanyInput is the body of company creation and update. Absent fields are nil.
type CompanyInput struct {
	Name        *string `json:"nome"`
	Category    *string `json:"categoria"`
	Description *string `json:"descricao"`
	CNPJ        *string `json:"cnpj"`
	Phone       *string `json:"telefone"`
	Whatsapp    *string `json:"whatsapp"`
	Email       *string `json:"email"`
	Address     *string `json:"endereco"`
	CEP         *string `json:"cep"`
	Responsible *string `json:"responsavel"`
	Image       *string `json:"imagem"`
	Site        *string `json:"site"`
	Facebook    *string `json:"facebook"`
	Instagram   *string `json:"instagram"`
	Linkedin    *string `json:"linkedin"`
}

// CreateCompanyResponse is returned by the public sign-up: the stored
// company plus a message.
type CreateCompanyResponse struct {
	*Company
	Message string `json:"message"`
}
