package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryImage is one picture of the public gallery ("galeria").
type GalleryImage struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	URL         string             `json:"url" bson:"url"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Order       int                `json:"order" bson:"order"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type GalleryInput struct {
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// GalleryOrderRequest reorders many images at once.
type GalleryOrderRequest struct {
	Images []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"imagens"`
}

// BoardMember is a member of the association board ("diretoria").
type BoardMember struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"nome" bson:"nome"`
	Role      string             `json:"cargo" bson:"cargo"`
	Photo     *string            `json:"foto" bson:"foto"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BoardMemberInput struct {
	Name  *string `json:"nome"`
	Role  *string `json:"cargo"`
	Photo *string `json:"foto"`
}

// DefaultPartnerColor is used when a partner is created without a color.
const DefaultPartnerColor = "#1890ff"

// Partner is an institutional partner ("parceiros").
type Partner struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"nome" bson:"nome"`
	Category    string             `json:"categoria" bson:"categoria"`
	Description string             `json:"descricao" bson:"descricao"`
	Color       string             `json:"cor" bson:"cor"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type PartnerInput struct {
	Name        *string `json:"nome"`
	Category    *string `json:"categoria"`
	Description *string `json:"descricao"`
	Color       *string `json:"cor"`
}

// About is the "sobre" singleton.
type About struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	History   string             `json:"historia" bson:"historia"`
	Mission   string             `json:"missao" bson:"missao"`
	Vision    string             `json:"visao" bson:"visao"`
	Values    []string           `json:"valores" bson:"valores"`
	Goals     []string           `json:"objetivos" bson:"objetivos"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AboutInput struct {
	History *string  `json:"historia"`
	Mission *string  `json:"missao"`
	Vision  *string  `json:"visao"`
	Values  []string `json:"valores"`
	Goals   []string `json:"objetivos"`
}

// DefaultMonthlyFee is the membership fee shown until an admin sets one.
const DefaultMonthlyFee = 100.00

// Settings is the "configuracoes" singleton.
type Settings struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Contact    ContactInfo        `json:"contato" bson:"contato"`
	Social     SocialLinks        `json:"redesSociais" bson:"redesSociais"`
	MonthlyFee float64            `json:"valorMensalidade" bson:"valorMensalidade"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ContactInfo struct {
	Phone   string `json:"telefone" bson:"telefone"`
	Email   string `json:"email" bson:"email"`
	Address string `json:"endereco" bson:"endereco"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook" bson:"facebook"`
	Instagram string `json:"instagram" bson:"instagram"`
	Linkedin  string `json:"linkedin" bson:"linkedin"`
}

type SettingsInput struct {
	Contact    *ContactInfo `json:"contato"`
	Social     *SocialLinks `json:"redesSociais"`
	MonthlyFee *float64     `json:"valorMensalidade"`
}
