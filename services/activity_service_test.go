package services

import (
	"context"
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

var activityNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type activityFixture struct {
	activities  *mockActivities
	enrollments *mockEnrollments
	companies   *mockCompanies
	accounts    *mockAccounts
	svc         *ActivityService
}

func newActivityFixture(kind string) *activityFixture {
	f := &activityFixture{
		activities:  &mockActivities{},
		enrollments: &mockEnrollments{},
		companies:   &mockCompanies{},
		accounts:    &mockAccounts{},
	}
	f.svc = NewActivityService(kind, f.activities, f.enrollments, f.companies, f.accounts, zap.NewNop())
	f.svc.now = fixedClock(activityNow)
	return f
}

func TestActivityListVisibility(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	companyID := primitive.NewObjectID()
	who := AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}
	seats := 10
	owned := models.Activity{ID: primitive.NewObjectID(), Title: "Workshop", CompanyID: &companyID, Seats: &seats, Enrolled: 4}

	f := newActivityFixture(models.KindTraining)
	f.activities.On("DeactivateExpired", mock.Anything, today).Return(int64(0), nil)
	f.activities.On("List", mock.Anything, models.Visibility{Scope: models.ScopePublic}, today).Return([]models.Activity{owned}, nil).Once()
	f.activities.On("List", mock.Anything, models.Visibility{Scope: models.ScopeCompany, CompanyID: companyID}, today).Return([]models.Activity{owned}, nil).Once()
	f.companies.On("Summaries", mock.Anything, []primitive.ObjectID{companyID}).Return(map[primitive.ObjectID]*models.CompanySummary{
		companyID: {ID: companyID, Name: "Padaria"},
	}, nil)

	// Without ?area=logged the public branch applies even with a token.
	views, err := f.svc.List(context.Background(), who, false)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 6, *views[0].AvailableSeats)
	assert.Equal(t, 4, views[0].TotalEnrolled)
	assert.Equal(t, "Padaria", views[0].Company.Name)

	_, err = f.svc.List(context.Background(), who, true)
	require.NoError(t, err)
	f.activities.AssertExpectations(t)
}

func TestActivityCreate(t *testing.T) {
	in := models.ActivityInput{
		Title:       strPtr("Curso de vendas"),
		Description: strPtr("Técnicas"),
		Date:        strPtr("2024-06-01"),
	}

	t.Run("training requires tipo", func(t *testing.T) {
		f := newActivityFixture(models.KindTraining)
		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, in)
		assert.Equal(t, "Título, descrição, tipo e data são obrigatórios", apperrors.Message(err, ""))
	})

	t.Run("associate owns what they create", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		companyID := primitive.NewObjectID()
		zero := 0
		withSeats := in
		withSeats.Seats = &zero
		f.activities.On("Insert", mock.Anything, mock.MatchedBy(func(a *models.Activity) bool {
			return a.CompanyID != nil && *a.CompanyID == companyID && a.Active && a.Seats == nil
		})).Return(nil)

		activity, err := f.svc.Create(context.Background(), AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}, withSeats)
		require.NoError(t, err)
		assert.Equal(t, 2024, activity.Date.Year())
	})

	t.Run("bad date", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		bad := in
		bad.Date = strPtr("amanhã")
		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, bad)
		assert.Equal(t, "Data inválida", apperrors.Message(err, ""))
	})
}

func TestEnrollGuest(t *testing.T) {
	id := primitive.NewObjectID()
	event := &models.Activity{ID: id, Title: "Palestra", Location: "Auditório", Date: &activityNow, Active: true}
	req := models.EnrollRequest{EventID: id.Hex(), Name: "João", CPF: "123.456.789-00", Phone: "11999990000"}
	guest := repositories.Registrant{CPF: "12345678900"}

	t.Run("success", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		f.activities.On("FindByID", mock.Anything, id).Return(event, nil)
		f.enrollments.On("Exists", mock.Anything, models.KindEvent, id, guest).Return(false, nil)
		f.activities.On("Reserve", mock.Anything, id).Return(true, nil)
		f.enrollments.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.Enrollment) bool {
			return e.Kind == models.KindEvent && e.Origin == models.OriginPublic && e.CPF == "12345678900" && e.ItemID == id
		})).Return(nil)

		headline, err := f.svc.EnrollGuest(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Palestra", headline.Title)
		assert.Equal(t, "Auditório", headline.Location)
	})

	t.Run("already enrolled", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		f.activities.On("FindByID", mock.Anything, id).Return(event, nil)
		f.enrollments.On("Exists", mock.Anything, models.KindEvent, id, guest).Return(true, nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, 409, apperrors.Status(err))
		assert.Equal(t, "Este CPF já está inscrito neste evento", apperrors.Message(err, ""))
		f.activities.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("no seats left", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		f.activities.On("FindByID", mock.Anything, id).Return(event, nil)
		f.enrollments.On("Exists", mock.Anything, models.KindEvent, id, guest).Return(false, nil)
		f.activities.On("Reserve", mock.Anything, id).Return(false, nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, 403, apperrors.Status(err))
		assert.Equal(t, "Não há vagas disponíveis para este evento", apperrors.Message(err, ""))
	})

	t.Run("insert race releases the seat", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		f.activities.On("FindByID", mock.Anything, id).Return(event, nil)
		f.enrollments.On("Exists", mock.Anything, models.KindEvent, id, guest).Return(false, nil)
		f.activities.On("Reserve", mock.Anything, id).Return(true, nil)
		f.enrollments.On("Insert", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)
		f.activities.On("Release", mock.Anything, id).Return(nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, 409, apperrors.Status(err))
		f.activities.AssertCalled(t, "Release", mock.Anything, id)
	})

	t.Run("inactive event", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		off := *event
		off.Active = false
		f.activities.On("FindByID", mock.Anything, id).Return(&off, nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, 403, apperrors.Status(err))
		assert.Equal(t, "Este evento não está mais disponível", apperrors.Message(err, ""))
		f.enrollments.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.activities.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("past event", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		yesterday := activityNow.AddDate(0, 0, -1)
		past := *event
		past.Date = &yesterday
		f.activities.On("FindByID", mock.Anything, id).Return(&past, nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, 403, apperrors.Status(err))
		assert.Equal(t, "Este evento não está mais disponível", apperrors.Message(err, ""))
		f.activities.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("earlier the same day is still open", func(t *testing.T) {
		f := newActivityFixture(models.KindEvent)
		morning := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
		today := *event
		today.Date = &morning
		f.activities.On("FindByID", mock.Anything, id).Return(&today, nil)
		f.enrollments.On("Exists", mock.Anything, models.KindEvent, id, guest).Return(false, nil)
		f.activities.On("Reserve", mock.Anything, id).Return(true, nil)
		f.enrollments.On("Insert", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.EnrollGuest(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("training id is read from capacitacaoId", func(t *testing.T) {
		f := newActivityFixture(models.KindTraining)
		_, err := f.svc.EnrollGuest(context.Background(), req)
		assert.Equal(t, "ID da capacitação, nome, CPF e telefone são obrigatórios", apperrors.Message(err, ""))
	})
}

func TestEnrollAccount(t *testing.T) {
	id := primitive.NewObjectID()
	accountID := primitive.NewObjectID()
	f := newActivityFixture(models.KindTraining)
	account := repositories.Registrant{AccountID: &accountID}

	f.accounts.On("FindAdminByID", mock.Anything, accountID).Return(&models.Admin{ID: accountID, Name: "Admin", Email: "admin@aecac.org.br"}, nil)
	f.activities.On("FindByID", mock.Anything, id).Return(&models.Activity{ID: id, Title: "Curso", Active: true}, nil)
	f.enrollments.On("Exists", mock.Anything, models.KindTraining, id, account).Return(false, nil)
	f.activities.On("Reserve", mock.Anything, id).Return(true, nil)
	f.enrollments.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.Enrollment) bool {
		return e.Origin == models.OriginPrivate && e.Name == "Admin" && e.AccountID != nil && *e.AccountID == accountID
	})).Return(nil)

	_, err := f.svc.EnrollAccount(context.Background(), AdminIdentity{ID: accountID}, models.EnrollRequest{TrainingID: id.Hex()})
	require.NoError(t, err)
	f.enrollments.AssertExpectations(t)
}

func TestCancelGuest(t *testing.T) {
	id := primitive.NewObjectID()
	guest := repositories.Registrant{CPF: "12345678900"}
	req := models.EnrollRequest{TrainingID: id.Hex(), CPF: "123.456.789-00"}

	f := newActivityFixture(models.KindTraining)
	f.enrollments.On("Delete", mock.Anything, models.KindTraining, id, guest).Return(false, nil).Once()

	err := f.svc.CancelGuest(context.Background(), req)
	assert.Equal(t, 404, apperrors.Status(err))
	assert.Equal(t, "Inscrição não encontrada", apperrors.Message(err, ""))

	f.enrollments.On("Delete", mock.Anything, models.KindTraining, id, guest).Return(true, nil).Once()
	f.activities.On("Release", mock.Anything, id).Return(nil).Once()

	require.NoError(t, f.svc.CancelGuest(context.Background(), req))
	f.activities.AssertExpectations(t)
}

func TestEnrollees(t *testing.T) {
	companyID := primitive.NewObjectID()
	owned := &models.Activity{ID: primitive.NewObjectID(), CompanyID: &companyID}
	house := &models.Activity{ID: primitive.NewObjectID()}

	f := newActivityFixture(models.KindEvent)
	f.activities.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
	f.activities.On("FindByID", mock.Anything, house.ID).Return(house, nil)
	f.enrollments.On("ListByItem", mock.Anything, models.KindEvent, owned.ID).Return([]models.Enrollment{
		{Origin: models.OriginPublic, Name: "João", CPF: "12345678900"},
	}, nil)
	f.enrollments.On("ListByItem", mock.Anything, models.KindEvent, house.ID).Return([]models.Enrollment{}, nil)

	list, err := f.svc.Enrollees(context.Background(), AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}, owned.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "João", list[0].Name)

	_, err = f.svc.Enrollees(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, owned.ID.Hex())
	assert.Equal(t, 403, apperrors.Status(err))

	list, err = f.svc.Enrollees(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, house.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Enrollees(context.Background(), AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: primitive.NewObjectID()}, house.ID.Hex())
	assert.Equal(t, 403, apperrors.Status(err))

	_, err = f.svc.Enrollees(context.Background(), AdminIdentity{}, "xyz")
	assert.Equal(t, "ID do evento inválido", apperrors.Message(err, ""))
}
