package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification categories used by the API itself.
const (
	NotificationGeneral = "geral"
)

// Notification model
type Notification struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`   // recipient account
	Type      string             `json:"tipo" bson:"tipo"`       // geral, evento, beneficio...
	Title     string             `json:"titulo" bson:"titulo"`   // short headline
	Message   string             `json:"mensagem" bson:"mensagem"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool               `json:"lida" bson:"lida"`
	BatchID   string             `json:"batchId,omitempty" bson:"batchId,omitempty"` // shared by a fan-out
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PendingNotification waits for an account with Email to be created.
type PendingNotification struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Email     string              `json:"email" bson:"email"`
	Type      string              `json:"tipo" bson:"tipo"`
	Title     string              `json:"titulo" bson:"titulo"`
	Message   string              `json:"mensagem" bson:"mensagem"`
	Link      string              `json:"link,omitempty" bson:"link,omitempty"`
	CompanyID *primitive.ObjectID `json:"empresaId,omitempty" bson:"empresaId,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// CreateNotificationRequest targets UserIDs, or every account when empty.
type CreateNotificationRequest struct {
	Type    string   `json:"tipo" validate:"max=50"`
	Title   string   `json:"titulo" validate:"max=200"`
	Message string   `json:"mensagem" validate:"max=2000"`
	Link    string   `json:"link" validate:"max=500"`
	UserIDs []string `json:"userIds" validate:"max=10000"`
}

type CreateNotificationResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type MarkReadRequest struct {
	Read *bool `json:"lida"`
}
