package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) FindAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	args := m.Called(ctx, id)
	admin, _ := args.Get(0).(*models.Admin)
	return admin, args.Error(1)
}

func (m *mockAccounts) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	admin, _ := args.Get(0).(*models.Admin)
	return admin, args.Error(1)
}

func (m *mockAccounts) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]models.Admin)
	return admins, args.Error(1)
}

func (m *mockAccounts) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccounts) InsertAdmin(ctx context.Context, admin *models.Admin) error {
	args := m.Called(ctx, admin)
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockAccounts) UpdateAdmin(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Admin, error) {
	args := m.Called(ctx, id, set)
	admin, _ := args.Get(0).(*models.Admin)
	return admin, args.Error(1)
}

func (m *mockAccounts) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccounts) FindAssociateByID(ctx context.Context, id primitive.ObjectID) (*models.Associate, error) {
	args := m.Called(ctx, id)
	associate, _ := args.Get(0).(*models.Associate)
	return associate, args.Error(1)
}

func (m *mockAccounts) FindAssociateByEmail(ctx context.Context, email string) (*models.Associate, error) {
	args := m.Called(ctx, email)
	associate, _ := args.Get(0).(*models.Associate)
	return associate, args.Error(1)
}

func (m *mockAccounts) ListAssociates(ctx context.Context) ([]models.Associate, error) {
	args := m.Called(ctx)
	associates, _ := args.Get(0).([]models.Associate)
	return associates, args.Error(1)
}

func (m *mockAccounts) InsertAssociate(ctx context.Context, associate *models.Associate) error {
	args := m.Called(ctx, associate)
	if associate.ID.IsZero() {
		associate.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockAccounts) UpdateAssociate(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Associate, error) {
	args := m.Called(ctx, id, set)
	associate, _ := args.Get(0).(*models.Associate)
	return associate, args.Error(1)
}

func (m *mockAccounts) EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, email, except)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccounts) AccountIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]primitive.ObjectID)
	return ids, args.Error(1)
}

type mockCompanies struct{ mock.Mock }

func (m *mockCompanies) Insert(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockCompanies) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	args := m.Called(ctx, id)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *mockCompanies) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *mockCompanies) FindApprovedByEmail(ctx context.Context, email string) (*models.Company, error) {
	args := m.Called(ctx, email)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *mockCompanies) ListApproved(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]models.Company)
	return companies, args.Error(1)
}

func (m *mockCompanies) ListByStatus(ctx context.Context, status string) ([]models.Company, error) {
	args := m.Called(ctx, status)
	companies, _ := args.Get(0).([]models.Company)
	return companies, args.Error(1)
}

func (m *mockCompanies) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Company, error) {
	args := m.Called(ctx, id, set)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *mockCompanies) Transition(ctx context.Context, id primitive.ObjectID, from, to string, by primitive.ObjectID, at time.Time) (*models.Company, error) {
	args := m.Called(ctx, id, from, to, by, at)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *mockCompanies) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCompanies) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.CompanySummary, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).(map[primitive.ObjectID]*models.CompanySummary)
	return out, args.Error(1)
}

type mockBenefits struct{ mock.Mock }

func (m *mockBenefits) Insert(ctx context.Context, benefit *models.Benefit) error {
	args := m.Called(ctx, benefit)
	if benefit.ID.IsZero() {
		benefit.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockBenefits) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error) {
	args := m.Called(ctx, id)
	benefit, _ := args.Get(0).(*models.Benefit)
	return benefit, args.Error(1)
}

func (m *mockBenefits) FindByCode(ctx context.Context, code string) (*models.Benefit, error) {
	args := m.Called(ctx, code)
	benefit, _ := args.Get(0).(*models.Benefit)
	return benefit, args.Error(1)
}

func (m *mockBenefits) CodeTaken(ctx context.Context, code string, except primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, code, except)
	return args.Bool(0), args.Error(1)
}

func (m *mockBenefits) List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Benefit, error) {
	args := m.Called(ctx, vis, today)
	benefits, _ := args.Get(0).([]models.Benefit)
	return benefits, args.Error(1)
}

func (m *mockBenefits) ListAll(ctx context.Context) ([]models.Benefit, error) {
	args := m.Called(ctx)
	benefits, _ := args.Get(0).([]models.Benefit)
	return benefits, args.Error(1)
}

func (m *mockBenefits) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Benefit, error) {
	args := m.Called(ctx, companyID)
	benefits, _ := args.Get(0).([]models.Benefit)
	return benefits, args.Error(1)
}

func (m *mockBenefits) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Benefit, error) {
	args := m.Called(ctx, id, set)
	benefit, _ := args.Get(0).(*models.Benefit)
	return benefit, args.Error(1)
}

func (m *mockBenefits) Touch(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBenefits) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBenefits) DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBenefits) Reserve(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBenefits) Release(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockRedemptions struct{ mock.Mock }

func (m *mockRedemptions) Insert(ctx context.Context, redemption *models.Redemption) error {
	return m.Called(ctx, redemption).Error(0)
}

func (m *mockRedemptions) ListByBenefits(ctx context.Context, ids []primitive.ObjectID) ([]models.Redemption, []models.Redemption, error) {
	args := m.Called(ctx, ids)
	accounts, _ := args.Get(0).([]models.Redemption)
	guests, _ := args.Get(1).([]models.Redemption)
	return accounts, guests, args.Error(2)
}

type mockActivities struct{ mock.Mock }

func (m *mockActivities) Insert(ctx context.Context, activity *models.Activity) error {
	args := m.Called(ctx, activity)
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockActivities) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	args := m.Called(ctx, id)
	activity, _ := args.Get(0).(*models.Activity)
	return activity, args.Error(1)
}

func (m *mockActivities) List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Activity, error) {
	args := m.Called(ctx, vis, today)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}

func (m *mockActivities) ListAll(ctx context.Context) ([]models.Activity, error) {
	args := m.Called(ctx)
	activities, _ := args.Get(0).([]models.Activity)
	return activities, args.Error(1)
}

func (m *mockActivities) Update(ctx context.Context, id primitive.ObjectID, set, unset bson.M) (*models.Activity, error) {
	args := m.Called(ctx, id, set, unset)
	activity, _ := args.Get(0).(*models.Activity)
	return activity, args.Error(1)
}

func (m *mockActivities) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockActivities) DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockActivities) Reserve(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockActivities) Release(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockEnrollments struct{ mock.Mock }

func (m *mockEnrollments) Insert(ctx context.Context, enrollment *models.Enrollment) error {
	return m.Called(ctx, enrollment).Error(0)
}

func (m *mockEnrollments) Exists(ctx context.Context, kind string, itemID primitive.ObjectID, who repositories.Registrant) (bool, error) {
	args := m.Called(ctx, kind, itemID, who)
	return args.Bool(0), args.Error(1)
}

func (m *mockEnrollments) Delete(ctx context.Context, kind string, itemID primitive.ObjectID, who repositories.Registrant) (bool, error) {
	args := m.Called(ctx, kind, itemID, who)
	return args.Bool(0), args.Error(1)
}

func (m *mockEnrollments) ListByItem(ctx context.Context, kind string, itemID primitive.ObjectID) ([]models.Enrollment, error) {
	args := m.Called(ctx, kind, itemID)
	rows, _ := args.Get(0).([]models.Enrollment)
	return rows, args.Error(1)
}

func (m *mockEnrollments) CountByItem(ctx context.Context, kind string, itemID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, kind, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollments) DeleteByItem(ctx context.Context, kind string, itemID primitive.ObjectID) error {
	return m.Called(ctx, kind, itemID).Error(0)
}

type mockNotifications struct{ mock.Mock }

func (m *mockNotifications) Insert(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifications) InsertMany(ctx context.Context, batch []models.Notification) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *mockNotifications) ListByUser(ctx context.Context, userID primitive.ObjectID, read *bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, read)
	rows, _ := args.Get(0).([]models.Notification)
	return rows, args.Error(1)
}

func (m *mockNotifications) SetRead(ctx context.Context, id, userID primitive.ObjectID, read bool) error {
	return m.Called(ctx, id, userID, read).Error(0)
}

func (m *mockNotifications) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifications) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockNotifications) InsertPending(ctx context.Context, p *models.PendingNotification) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockNotifications) TakePending(ctx context.Context, email string) ([]models.PendingNotification, error) {
	args := m.Called(ctx, email)
	rows, _ := args.Get(0).([]models.PendingNotification)
	return rows, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendCompanyApproved(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *mockMailer) SendCompanyRejected(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *mockMailer) SendWelcome(ctx context.Context, name, email string, company *models.Company) error {
	return m.Called(ctx, name, email, company).Error(0)
}

type mockLinker struct{ mock.Mock }

func (m *mockLinker) LinkPending(ctx context.Context, email string, accountID primitive.ObjectID) error {
	return m.Called(ctx, email, accountID).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyCompanyApproved(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) PushNotification(userID primitive.ObjectID, notification interface{}) error {
	return m.Called(userID, notification).Error(0)
}

// fakeTokens issues "token-<id>" so tests can assert on the subject.
type fakeTokens struct{}

func (fakeTokens) Issue(accountID string) (string, error) { return "token-" + accountID, nil }

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }
