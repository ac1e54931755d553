package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
)

func intPtr(n int) *int { return &n }

func TestOccupancy(t *testing.T) {
	tests := []struct {
		enrolled int
		seats    *int
		want     string
	}{
		{3, intPtr(4), "75.00%"},
		{1, intPtr(3), "33.33%"},
		{0, intPtr(10), "0.00%"},
		{5, nil, "Ilimitadas"},
		{5, intPtr(0), "Ilimitadas"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Occupancy(tt.enrolled, tt.seats))
	}
}

func newReportFixture() (*ReportService, *mockCompanies, *mockBenefits, *mockActivities, *mockActivities, *mockAccounts) {
	companies, benefits, trainings, events, accounts := &mockCompanies{}, &mockBenefits{}, &mockActivities{}, &mockActivities{}, &mockAccounts{}
	svc := NewReportService(companies, benefits, trainings, events, accounts)
	svc.now = fixedClock(time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC))
	return svc, companies, benefits, trainings, events, accounts
}

func TestEnrollmentReport(t *testing.T) {
	svc, _, _, trainings, events, _ := newReportFixture()
	trainings.On("ListAll", mock.Anything).Return([]models.Activity{
		{ID: primitive.NewObjectID(), Title: "Excel", Type: "curso", Seats: intPtr(20), Enrolled: 5},
	}, nil)
	events.On("ListAll", mock.Anything).Return([]models.Activity{
		{ID: primitive.NewObjectID(), Title: "Feira", Enrolled: 40},
	}, nil)

	report, err := svc.Build(context.Background(), ReportEnrollments)
	require.NoError(t, err)
	assert.Nil(t, report.Benefits)
	require.NotNil(t, report.Enrollments)
	assert.Equal(t, 2, report.Enrollments.Total)
	assert.Equal(t, 45, report.Enrollments.TotalEnrolled)
	assert.Equal(t, "25.00%", report.Enrollments.Details[0].Occupancy)
	assert.Equal(t, models.KindEvent, report.Enrollments.Details[1].Kind)
	assert.Equal(t, "Ilimitadas", report.Enrollments.Details[1].Occupancy)
}

func TestBenefitReportBuckets(t *testing.T) {
	svc, _, benefits, _, _, _ := newReportFixture()
	yesterday := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	benefits.On("ListAll", mock.Anything).Return([]models.Benefit{
		{ID: primitive.NewObjectID(), Active: true, ExpiresAt: &yesterday},
		{ID: primitive.NewObjectID(), Active: true, ExpiresAt: &today},
		{ID: primitive.NewObjectID(), Active: true},
		{ID: primitive.NewObjectID(), Active: false},
	}, nil)

	report, err := svc.Build(context.Background(), ReportBenefits)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Benefits.Total)
	assert.Equal(t, 1, report.Benefits.Expired)
	assert.Equal(t, 2, report.Benefits.Active)
	assert.Equal(t, 1, report.Benefits.Inactive)
}

func TestCompanyReport(t *testing.T) {
	svc, companies, _, _, _, _ := newReportFixture()
	logo := "data:image/png;base64,AAAA"
	empty := ""
	companies.On("ListByStatus", mock.Anything, "").Return([]models.Company{
		{Category: "Alimentação", Status: models.CompanyApproved, Image: &logo},
		{Category: "Alimentação", Status: models.CompanyPending, Image: &empty},
		{Category: "Serviços", Status: models.CompanyApproved},
	}, nil)

	report, err := svc.Build(context.Background(), ReportCompanies)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Companies.Total)
	assert.Equal(t, 2, report.Companies.ByCategory["Alimentação"])
	assert.Equal(t, 2, report.Companies.ByStatus[models.CompanyApproved])
	assert.Equal(t, 1, report.Companies.WithImage)
	assert.Equal(t, 2, report.Companies.NoImage)
}

func TestReportRejectsUnknownKinds(t *testing.T) {
	svc, _, _, _, _, _ := newReportFixture()

	_, err := svc.Build(context.Background(), "financeiro")
	assert.Equal(t, "Tipo de relatório inválido", apperrors.Message(err, ""))

	_, _, err = svc.Export(context.Background(), "eventos")
	assert.Equal(t, "Tipo de exportação inválido", apperrors.Message(err, ""))
}

func TestExportUsers(t *testing.T) {
	svc, _, _, _, _, accounts := newReportFixture()
	companyID := primitive.NewObjectID()
	accounts.On("ListAdmins", mock.Anything).Return([]models.Admin{{Name: "Admin", Email: "admin@aecac.org.br"}}, nil)
	accounts.On("ListAssociates", mock.Anything).Return([]models.Associate{{Name: "Ana", Email: "ana@padaria.com", CompanyID: companyID}}, nil)

	name, rows, err := svc.Export(context.Background(), ReportUsers)
	require.NoError(t, err)
	assert.Equal(t, "usuarios", name)
	require.Len(t, rows, 2)
	assert.Equal(t, models.AccountAdmin, rows[0][2].Value)
	assert.Nil(t, rows[0][3].Value)
	assert.Equal(t, companyID, rows[1][3].Value)
}
