package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

var notificationNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newNotificationFixture() (*NotificationService, *mockNotifications, *mockAccounts, *mockPusher) {
	notifications, accounts, pusher := &mockNotifications{}, &mockAccounts{}, &mockPusher{}
	svc := NewNotificationService(notifications, accounts, pusher, zap.NewNop())
	svc.now = fixedClock(notificationNow)
	return svc, notifications, accounts, pusher
}

func TestCreateNotificationTargets(t *testing.T) {
	svc, notifications, _, pusher := newNotificationFixture()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	notifications.On("InsertMany", mock.Anything, mock.MatchedBy(func(batch []models.Notification) bool {
		return len(batch) == 2 && batch[0].UserID == a && batch[1].UserID == b &&
			batch[0].BatchID != "" && batch[0].BatchID == batch[1].BatchID &&
			batch[0].Title == "Aviso" && !batch[0].Read
	})).Return(nil)
	pusher.On("PushNotification", a, mock.Anything).Return(nil)
	pusher.On("PushNotification", b, mock.Anything).Return(errors.New("offline"))

	resp, err := svc.Create(context.Background(), models.CreateNotificationRequest{
		Type:    "geral",
		Title:   "<b>Aviso</b>",
		Message: "Reunião amanhã",
		UserIDs: []string{a.Hex(), b.Hex(), a.Hex()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "2 notificação(ões) criada(s) com sucesso", resp.Message)
	pusher.AssertNumberOfCalls(t, "PushNotification", 2)
}

func TestCreateNotificationBroadcast(t *testing.T) {
	svc, notifications, accounts, pusher := newNotificationFixture()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	accounts.On("AccountIDs", mock.Anything).Return(ids, nil)
	notifications.On("InsertMany", mock.Anything, mock.MatchedBy(func(batch []models.Notification) bool {
		return len(batch) == 3
	})).Return(nil)
	pusher.On("PushNotification", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), models.CreateNotificationRequest{Type: "evento", Title: "Feira", Message: "Sábado"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)
}

func TestCreateNotificationValidation(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture()

	_, err := svc.Create(context.Background(), models.CreateNotificationRequest{Type: "geral", Title: "<script></script>", Message: "x"})
	assert.Equal(t, "Tipo, título e mensagem são obrigatórios", apperrors.Message(err, ""))

	_, err = svc.Create(context.Background(), models.CreateNotificationRequest{Type: "geral", Title: "t", Message: "m", UserIDs: []string{"abc"}})
	assert.Equal(t, "ID de usuário inválido: abc", apperrors.Message(err, ""))
	notifications.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
}

func TestNotificationOwnership(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture()
	userID, id := primitive.NewObjectID(), primitive.NewObjectID()
	who := AssociateIdentity{ID: userID, CompanyID: primitive.NewObjectID()}

	notifications.On("SetRead", mock.Anything, id, userID, true).Return(nil)
	notifications.On("SetRead", mock.Anything, id, userID, false).Return(repositories.ErrNotFound)
	notifications.On("Delete", mock.Anything, id, userID).Return(repositories.ErrNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), who, id, nil))

	unread := false
	err := svc.MarkRead(context.Background(), who, id, &unread)
	assert.Equal(t, 404, apperrors.Status(err))

	err = svc.Delete(context.Background(), who, id)
	assert.Equal(t, 404, apperrors.Status(err))
	assert.Equal(t, "Notificação não encontrada", apperrors.Message(err, ""))

	_, err = svc.List(context.Background(), UnknownIdentity{}, nil)
	assert.Equal(t, 401, apperrors.Status(err))
}

func TestNotifyCompanyApproved(t *testing.T) {
	company := &models.Company{ID: primitive.NewObjectID(), Name: "Padaria", Email: "Contato@Padaria.com"}

	t.Run("existing associate is notified and pushed", func(t *testing.T) {
		svc, notifications, accounts, pusher := newNotificationFixture()
		associate := &models.Associate{ID: primitive.NewObjectID(), Email: "contato@padaria.com"}
		accounts.On("FindAssociateByEmail", mock.Anything, "contato@padaria.com").Return(associate, nil)
		notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
			return n.UserID == associate.ID && n.Link == "/associado"
		})).Return(nil)
		pusher.On("PushNotification", associate.ID, mock.Anything).Return(nil)

		require.NoError(t, svc.NotifyCompanyApproved(context.Background(), company))
		pusher.AssertExpectations(t)
	})

	t.Run("no account yet leaves a pending notification", func(t *testing.T) {
		svc, notifications, accounts, pusher := newNotificationFixture()
		accounts.On("FindAssociateByEmail", mock.Anything, "contato@padaria.com").Return(nil, repositories.ErrNotFound)
		notifications.On("InsertPending", mock.Anything, mock.MatchedBy(func(p *models.PendingNotification) bool {
			return p.Email == "contato@padaria.com" && p.CompanyID != nil && *p.CompanyID == company.ID && p.Link == "/associado/login"
		})).Return(nil)

		require.NoError(t, svc.NotifyCompanyApproved(context.Background(), company))
		pusher.AssertNotCalled(t, "PushNotification", mock.Anything, mock.Anything)
	})
}

func TestLinkPending(t *testing.T) {
	svc, notifications, _, _ := newNotificationFixture()
	accountID := primitive.NewObjectID()
	created := notificationNow.Add(-48 * time.Hour)

	notifications.On("TakePending", mock.Anything, "novo@padaria.com").Return([]models.PendingNotification{
		{Email: "novo@padaria.com", Type: models.NotificationGeneral, Title: "Empresa Aprovada! 🎉", CreatedAt: created},
	}, nil)
	notifications.On("InsertMany", mock.Anything, mock.MatchedBy(func(batch []models.Notification) bool {
		return len(batch) == 1 && batch[0].UserID == accountID && batch[0].CreatedAt.Equal(created)
	})).Return(nil)

	require.NoError(t, svc.LinkPending(context.Background(), " Novo@Padaria.com ", accountID))
	notifications.AssertExpectations(t)
}
