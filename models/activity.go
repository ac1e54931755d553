package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity kinds. They double as the "tipo" of enrollment records.
const (
	KindTraining = "capacitacao"
	KindEvent    = "evento"
)

// Activity is a training ("capacitacoes") or an event ("eventos"). Both share
// scheduling, capacity and ownership; kind-specific fields are omitted when empty.
type Activity struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Title       string              `json:"titulo" bson:"titulo"`
	Description string              `json:"descricao" bson:"descricao"`
	Date        *time.Time          `json:"data" bson:"data"`
	Location    string              `json:"local" bson:"local"`
	Image       *string             `json:"imagem" bson:"imagem"`
	Seats       *int                `json:"vagas" bson:"vagas"` // nil = unlimited
	Enrolled    int                 `json:"inscritos" bson:"inscritos"`
	CompanyID   *primitive.ObjectID `json:"empresaId" bson:"empresaId"`
	Active      bool                `json:"ativo" bson:"ativo"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`

	// trainings
	Type  string      `json:"tipo,omitempty" bson:"tipo,omitempty"` // curso, palestra, workshop...
	Link  string      `json:"link,omitempty" bson:"link,omitempty"`
	Price interface{} `json:"valor,omitempty" bson:"valor,omitempty"`

	// events
	Time     string `json:"hora,omitempty" bson:"hora,omitempty"`
	Category string `json:"categoria,omitempty" bson:"categoria,omitempty"`
	Speaker  string `json:"palestrante,omitempty" bson:"palestrante,omitempty"`
}

// AvailableSeats returns the remaining seats, or nil when unlimited.
func (a *Activity) AvailableSeats() *int {
	if a.Seats == nil {
		return nil
	}
	left := *a.Seats - a.Enrolled
	if left < 0 {
		left = 0
	}
	return &left
}

// ActivityView is an activity annotated at read time.
type ActivityView struct {
	Activity
	AvailableSeats *int            `json:"vagasDisponiveis"`
	TotalEnrolled  int             `json:"totalInscritos"`
	Company        *CompanySummary `json:"empresa,omitempty"`
}

// ActivityInput is the body of activity creation and update.
type ActivityInput struct {
	Title       *string     `json:"titulo"`
	Description *string     `json:"descricao"`
	Date        *string     `json:"data"`
	Location    *string     `json:"local"`
	Image       *string     `json:"imagem"`
	Seats       *int        `json:"vagas"` // 0 clears
	CompanyID   *string     `json:"empresaId"`
	Active      *bool       `json:"ativo"`
	Type        *string     `json:"tipo"`
	Link        *string     `json:"link"`
	Price       interface{} `json:"valor"`
	Time        *string     `json:"hora"`
	Category    *string     `json:"categoria"`
	Speaker     *string     `json:"palestrante"`
}

// ActivityHeadline is returned after an enrollment.
type ActivityHeadline struct {
	Title    string     `json:"titulo"`
	Date     *time.Time `json:"data"`
	Location string     `json:"local"`
}
