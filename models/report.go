package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is the body of /relatorios; sections are omitted when not requested.
type Report struct {
	Enrollments *EnrollmentReport `json:"inscricoes,omitempty"`
	Benefits    *BenefitReport    `json:"beneficios,omitempty"`
	Companies   *CompanyReport    `json:"empresas,omitempty"`
	Users       *UserReport       `json:"usuarios,omitempty"`
}

type EnrollmentReport struct {
	Total         int                `json:"total"`
	TotalEnrolled int                `json:"totalInscritos"`
	Details       []EnrollmentDetail `json:"detalhes"`
}

type EnrollmentDetail struct {
	ID        string     `json:"id"`
	Kind      string     `json:"categoria"` // capacitacao | evento
	Title     string     `json:"titulo"`
	Type      string     `json:"tipo"`
	Date      *time.Time `json:"data"`
	Seats     int        `json:"vagas"`
	Enrolled  int        `json:"inscritos"`
	Occupancy string     `json:"taxaOcupacao"` // "42.50%" or "Ilimitadas"
}

type BenefitReport struct {
	Total    int             `json:"total"`
	Active   int             `json:"ativos"`
	Expired  int             `json:"expirados"`
	Inactive int             `json:"inativos"`
	Details  []BenefitDetail `json:"detalhes"`
}

type BenefitDetail struct {
	ID        string              `json:"id"`
	Title     string              `json:"titulo"`
	CompanyID *primitive.ObjectID `json:"empresaId"`
	Discount  interface{}         `json:"desconto"`
	Active    bool                `json:"ativo"`
	ExpiresAt *time.Time          `json:"validade"`
	Redeemed  int                 `json:"resgatados"`
}

type CompanyReport struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"porCategoria"`
	ByStatus   map[string]int `json:"porStatus"`
	WithImage  int            `json:"comImagem"`
	NoImage    int            `json:"semImagem"`
}

type UserReport struct {
	Total      int         `json:"total"`
	Admins     int         `json:"admins"`
	Associates int         `json:"associados"`
	Details    UserDetails `json:"detalhes"`
}

type UserDetails struct {
	Admins     []AccountView `json:"admins"`
	Associates []AccountView `json:"associados"`
}
