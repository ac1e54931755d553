package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment registers one person in a training or event (collection
// "inscricoes"). Guest rows carry CPF, account rows carry AccountID.
type Enrollment struct {
	ID         primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Kind       string              `json:"tipo" bson:"tipo"`                   // capacitacao | evento
	Origin     string              `json:"tipoInscricao" bson:"tipoInscricao"` // publico | privado
	ItemID     primitive.ObjectID  `json:"itemId" bson:"itemId"`
	AccountID  *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Name       string              `json:"nome" bson:"nome"`
	CPF        string              `json:"cpf,omitempty" bson:"cpf,omitempty"`
	Phone      string              `json:"telefone,omitempty" bson:"telefone,omitempty"`
	Email      string              `json:"email,omitempty" bson:"email,omitempty"`
	EnrolledAt time.Time           `json:"dataInscricao" bson:"dataInscricao"`
}

// EnrollRequest is the body of enrollment and cancellation. The item id
// arrives as capacitacaoId or eventoId depending on the route.
type EnrollRequest struct {
	TrainingID string `json:"capacitacaoId" validate:"max=24"`
	EventID    string `json:"eventoId" validate:"max=24"`
	Name       string `json:"nome" validate:"max=200"`
	CPF        string `json:"cpf" validate:"max=20"`
	Phone      string `json:"telefone" validate:"max=30"`
	Email      string `json:"email" validate:"max=254"`
}

// Enrollee is an enrollment as listed for the organizer.
type Enrollee struct {
	Origin     string    `json:"tipo"`
	Name       string    `json:"nome"`
	Email      string    `json:"email"`
	CPF        string    `json:"cpf"`
	Phone      string    `json:"telefone"`
	EnrolledAt time.Time `json:"dataInscricao"`
}
