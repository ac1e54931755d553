package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/utils"
)

const msgNotificationNotFound = "Notificação não encontrada"

// Pusher delivers a stored notification to a connected account.
type Pusher interface {
	PushNotification(userID primitive.ObjectID, notification interface{}) error
}

type NotificationService struct {
	notifications NotificationStore
	accounts      AccountStore
	push          Pusher
	log           *zap.Logger
	now           Clock
}

func NewNotificationService(notifications NotificationStore, accounts AccountStore, push Pusher, log *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		accounts:      accounts,
		push:          push,
		log:           log,
		now:           time.Now,
	}
}

func recipient(who Identity) (primitive.ObjectID, error) {
	id := who.AccountID()
	if id.IsZero() {
		return id, apperrors.Unauthorized("Token inválido")
	}
	return id, nil
}

// List returns the caller's newest notifications, optionally filtered by read flag.
func (s *NotificationService) List(ctx context.Context, who Identity, read *bool) ([]models.Notification, error) {
	userID, err := recipient(who)
	if err != nil {
		return nil, err
	}
	return s.notifications.ListByUser(ctx, userID, read)
}

// Create stores one notification per target account, or per existing
// account when no targets are given.
func (s *NotificationService) Create(ctx context.Context, req models.CreateNotificationRequest) (*models.CreateNotificationResponse, error) {
	kind, title, message := strings.TrimSpace(req.Type), utils.SanitizeText(req.Title), utils.SanitizeText(req.Message)
	if kind == "" || title == "" || message == "" {
		return nil, apperrors.Validation("Tipo, título e mensagem são obrigatórios")
	}

	var targets []primitive.ObjectID
	if len(req.UserIDs) > 0 {
		for _, raw := range req.UserIDs {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				return nil, apperrors.Validation("ID de usuário inválido: " + raw)
			}
			targets = append(targets, id)
		}
		targets = dedupe(targets)
	} else {
		ids, err := s.accounts.AccountIDs(ctx)
		if err != nil {
			return nil, err
		}
		targets = ids
	}

	now := s.now()
	batchID := uuid.NewString()
	batch := make([]models.Notification, 0, len(targets))
	for _, userID := range targets {
		batch = append(batch, models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Type:      kind,
			Title:     title,
			Message:   message,
			Link:      strings.TrimSpace(req.Link),
			BatchID:   batchID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.notifications.InsertMany(ctx, batch); err != nil {
		return nil, err
	}
	for i := range batch {
		s.deliver(&batch[i])
	}

	return &models.CreateNotificationResponse{
		Message: fmt.Sprintf("%d notificação(ões) criada(s) com sucesso", len(batch)),
		Count:   len(batch),
	}, nil
}

// deliver pushes over the websocket hub. Failures only cost the realtime copy.
func (s *NotificationService) deliver(n *models.Notification) {
	if s.push == nil {
		return
	}
	if err := s.push.PushNotification(n.UserID, n); err != nil {
		s.log.Warn("failed to push notification", zap.String("user", n.UserID.Hex()), zap.Error(err))
	}
}

// MarkRead sets the read flag of one of the caller's notifications; nil means read.
func (s *NotificationService) MarkRead(ctx context.Context, who Identity, id primitive.ObjectID, read *bool) error {
	userID, err := recipient(who)
	if err != nil {
		return err
	}
	value := true
	if read != nil {
		value = *read
	}
	return notFoundAs(s.notifications.SetRead(ctx, id, userID, value), msgNotificationNotFound)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, who Identity) (int64, error) {
	userID, err := recipient(who)
	if err != nil {
		return 0, err
	}
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, who Identity, id primitive.ObjectID) error {
	userID, err := recipient(who)
	if err != nil {
		return err
	}
	return notFoundAs(s.notifications.Delete(ctx, id, userID), msgNotificationNotFound)
}

// LinkPending turns the pending notifications of email into notifications of
// the new account.
func (s *NotificationService) LinkPending(ctx context.Context, email string, accountID primitive.ObjectID) error {
	pending, err := s.notifications.TakePending(ctx, utils.NormalizeEmail(email))
	if err != nil || len(pending) == 0 {
		return err
	}
	now := s.now()
	batch := make([]models.Notification, 0, len(pending))
	for _, p := range pending {
		batch = append(batch, models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    accountID,
			Type:      p.Type,
			Title:     p.Title,
			Message:   p.Message,
			Link:      p.Link,
			CreatedAt: p.CreatedAt,
			UpdatedAt: now,
		})
	}
	return s.notifications.InsertMany(ctx, batch)
}

// NotifyCompanyApproved notifies the associate account of an approved company,
// or leaves a pending notification for whoever registers with its email.
func (s *NotificationService) NotifyCompanyApproved(ctx context.Context, company *models.Company) error {
	email := utils.NormalizeEmail(company.Email)
	if email == "" {
		return nil
	}
	now := s.now()
	title := "Empresa Aprovada! 🎉"

	associate, err := s.accounts.FindAssociateByEmail(ctx, email)
	switch {
	case err == nil:
		n := &models.Notification{
			UserID:    associate.ID,
			Type:      models.NotificationGeneral,
			Title:     title,
			Message:   fmt.Sprintf("Sua empresa \"%s\" foi aprovada! Agora você pode acessar todos os benefícios exclusivos da AECAC.", company.Name),
			Link:      "/associado",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.notifications.Insert(ctx, n); err != nil {
			return err
		}
		s.deliver(n)
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	companyID := company.ID
	return s.notifications.InsertPending(ctx, &models.PendingNotification{
		Email:     email,
		Type:      models.NotificationGeneral,
		Title:     title,
		Message:   fmt.Sprintf("Sua empresa \"%s\" foi aprovada! Crie sua conta de associado para acessar todos os benefícios exclusivos.", company.Name),
		Link:      "/associado/login",
		CompanyID: &companyID,
		CreatedAt: now,
	})
}
