package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

var benefitNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

type benefitFixture struct {
	benefits  *mockBenefits
	companies *mockCompanies
	svc       *BenefitService
}

func newBenefitFixture() *benefitFixture {
	f := &benefitFixture{benefits: &mockBenefits{}, companies: &mockCompanies{}}
	f.svc = NewBenefitService(f.benefits, f.companies, zap.NewNop())
	f.svc.now = fixedClock(benefitNow)
	return f
}

func TestBenefitListVisibility(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	companyID := primitive.NewObjectID()
	quantity := 5
	house := models.Benefit{ID: primitive.NewObjectID(), Title: "Desconto da casa", Code: "CASA10", Active: true}
	owned := models.Benefit{ID: primitive.NewObjectID(), Title: "Café", Code: "CAFE", CompanyID: &companyID, Quantity: &quantity, Redeemed: 2, Active: true}

	tests := []struct {
		name string
		who  Identity
		vis  models.Visibility
		rows []models.Benefit
	}{
		{"anonymous sees the public listing", UnknownIdentity{}, models.Visibility{Scope: models.ScopePublic}, []models.Benefit{house, owned}},
		{"associate sees its company only", AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}, models.Visibility{Scope: models.ScopeCompany, CompanyID: companyID}, []models.Benefit{owned}},
		{"admin sees house benefits only", AdminIdentity{ID: primitive.NewObjectID()}, models.Visibility{Scope: models.ScopeHouse}, []models.Benefit{house}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBenefitFixture()
			swept := false
			f.benefits.On("DeactivateExpired", mock.Anything, today).Return(int64(1), nil).Run(func(mock.Arguments) { swept = true })
			f.benefits.On("List", mock.Anything, tt.vis, today).Return(tt.rows, nil).Run(func(mock.Arguments) {
				assert.True(t, swept, "expired benefits must be switched off before listing")
			})
			f.companies.On("Summaries", mock.Anything, []primitive.ObjectID{companyID}).Return(map[primitive.ObjectID]*models.CompanySummary{
				companyID: {ID: companyID, Name: "Padaria"},
			}, nil)

			views, err := f.svc.List(context.Background(), tt.who)
			require.NoError(t, err)
			require.Len(t, views, len(tt.rows))
			for _, v := range views {
				if v.CompanyID == nil {
					assert.Nil(t, v.AvailableQuantity)
					assert.Nil(t, v.Company)
					continue
				}
				require.NotNil(t, v.AvailableQuantity)
				assert.Equal(t, 3, *v.AvailableQuantity)
				assert.Equal(t, "Padaria", v.Company.Name)
			}
			f.benefits.AssertExpectations(t)
		})
	}
}

func TestBenefitListSweepFailureStillLists(t *testing.T) {
	f := newBenefitFixture()
	f.benefits.On("DeactivateExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("mongo down"))
	f.benefits.On("List", mock.Anything, models.Visibility{Scope: models.ScopePublic}, mock.Anything).Return([]models.Benefit{}, nil)

	views, err := f.svc.List(context.Background(), UnknownIdentity{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestBenefitCreate(t *testing.T) {
	in := models.BenefitInput{
		Title:       strPtr("10% em cafés"),
		Description: strPtr("Válido de segunda a sexta"),
		Code:        strPtr(" cafe10 "),
		ExpiresAt:   strPtr("2024-12-31"),
	}

	t.Run("associate owns what it creates", func(t *testing.T) {
		f := newBenefitFixture()
		companyID := primitive.NewObjectID()
		zero := 0
		withQuantity := in
		withQuantity.Quantity = &zero
		f.benefits.On("CodeTaken", mock.Anything, "CAFE10", primitive.NilObjectID).Return(false, nil)
		f.benefits.On("Insert", mock.Anything, mock.MatchedBy(func(b *models.Benefit) bool {
			return b.CompanyID != nil && *b.CompanyID == companyID && b.Code == "CAFE10" && b.Active && b.Quantity == nil
		})).Return(nil)

		benefit, err := f.svc.Create(context.Background(), AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}, withQuantity)
		require.NoError(t, err)
		require.NotNil(t, benefit.ExpiresAt)
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *benefit.ExpiresAt)
		assert.Equal(t, benefitNow, benefit.CreatedAt)
	})

	t.Run("admin without empresaId creates a house benefit", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("CodeTaken", mock.Anything, "CAFE10", primitive.NilObjectID).Return(false, nil)
		f.benefits.On("Insert", mock.Anything, mock.MatchedBy(func(b *models.Benefit) bool {
			return b.CompanyID == nil
		})).Return(nil)

		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, in)
		require.NoError(t, err)
		f.companies.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("code already in use", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("CodeTaken", mock.Anything, "CAFE10", primitive.NilObjectID).Return(true, nil)

		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, in)
		assert.Equal(t, 400, apperrors.Status(err))
		assert.Equal(t, "Este código já está em uso", apperrors.Message(err, ""))
		f.benefits.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("code taken between check and insert", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("CodeTaken", mock.Anything, "CAFE10", primitive.NilObjectID).Return(false, nil)
		f.benefits.On("Insert", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, in)
		assert.Equal(t, 400, apperrors.Status(err))
		assert.Equal(t, "Este código já está em uso", apperrors.Message(err, ""))
	})

	t.Run("missing code", func(t *testing.T) {
		f := newBenefitFixture()
		noCode := in
		noCode.Code = strPtr("   ")
		_, err := f.svc.Create(context.Background(), AdminIdentity{ID: primitive.NewObjectID()}, noCode)
		assert.Equal(t, "Código do benefício é obrigatório", apperrors.Message(err, ""))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		f := newBenefitFixture()
		_, err := f.svc.Create(context.Background(), UnknownIdentity{}, in)
		assert.Equal(t, 403, apperrors.Status(err))
	})
}

func TestBenefitOwnership(t *testing.T) {
	companyID := primitive.NewObjectID()
	owned := &models.Benefit{ID: primitive.NewObjectID(), Code: "CAFE", CompanyID: &companyID}
	house := &models.Benefit{ID: primitive.NewObjectID(), Code: "CASA"}
	member := AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: companyID}
	outsider := AssociateIdentity{ID: primitive.NewObjectID(), CompanyID: primitive.NewObjectID()}
	admin := AdminIdentity{ID: primitive.NewObjectID()}
	rename := models.BenefitInput{Title: strPtr("Novo título")}

	f := newBenefitFixture()
	f.benefits.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
	f.benefits.On("FindByID", mock.Anything, house.ID).Return(house, nil)
	f.benefits.On("Update", mock.Anything, mock.Anything, bson.M{"titulo": "Novo título"}).Return(&models.Benefit{Title: "Novo título"}, nil)
	f.benefits.On("Delete", mock.Anything, mock.Anything).Return(nil)

	tests := []struct {
		name   string
		who    Identity
		target *models.Benefit
		status int
	}{
		{"associate edits its own benefit", member, owned, 200},
		{"associate edits another company's benefit", outsider, owned, 403},
		{"associate edits a house benefit", member, house, 403},
		{"admin edits a company benefit", admin, owned, 200},
		{"admin edits a house benefit", admin, house, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(context.Background(), tt.who, tt.target.ID, rename)
			if tt.status == 200 {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.status, apperrors.Status(err))
			assert.Equal(t, "Você só pode editar benefícios da sua empresa", apperrors.Message(err, ""))
		})
	}

	err := f.svc.Delete(context.Background(), outsider, owned.ID)
	assert.Equal(t, 403, apperrors.Status(err))
	assert.Equal(t, "Você só pode excluir benefícios da sua empresa", apperrors.Message(err, ""))

	err = f.svc.Delete(context.Background(), member, house.ID)
	assert.Equal(t, 403, apperrors.Status(err))

	require.NoError(t, f.svc.Delete(context.Background(), member, owned.ID))
	require.NoError(t, f.svc.Delete(context.Background(), admin, house.ID))
	f.benefits.AssertNumberOfCalls(t, "Delete", 2)
}

func TestBenefitUpdateCode(t *testing.T) {
	id := primitive.NewObjectID()
	current := &models.Benefit{ID: id, Code: "CAFE"}
	admin := AdminIdentity{ID: primitive.NewObjectID()}

	t.Run("same code skips the uniqueness check", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("FindByID", mock.Anything, id).Return(current, nil)
		f.benefits.On("Update", mock.Anything, id, bson.M{}).Return(current, nil)

		_, err := f.svc.Update(context.Background(), admin, id, models.BenefitInput{Code: strPtr("cafe")})
		require.NoError(t, err)
		f.benefits.AssertNotCalled(t, "CodeTaken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new code already in use", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("FindByID", mock.Anything, id).Return(current, nil)
		f.benefits.On("CodeTaken", mock.Anything, "CHA", id).Return(true, nil)

		_, err := f.svc.Update(context.Background(), admin, id, models.BenefitInput{Code: strPtr("cha")})
		assert.Equal(t, 400, apperrors.Status(err))
		assert.Equal(t, "Este código já está em uso", apperrors.Message(err, ""))
		f.benefits.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new code is stored normalized", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("FindByID", mock.Anything, id).Return(current, nil)
		f.benefits.On("CodeTaken", mock.Anything, "CHA", id).Return(false, nil)
		f.benefits.On("Update", mock.Anything, id, bson.M{"codigo": "CHA", "quantidade": nil, "validade": nil}).Return(current, nil)

		zero := 0
		_, err := f.svc.Update(context.Background(), admin, id, models.BenefitInput{Code: strPtr(" cha "), Quantity: &zero, ExpiresAt: strPtr("")})
		require.NoError(t, err)
		f.benefits.AssertExpectations(t)
	})

	t.Run("missing benefit", func(t *testing.T) {
		f := newBenefitFixture()
		f.benefits.On("FindByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := f.svc.Update(context.Background(), admin, id, models.BenefitInput{})
		assert.Equal(t, 404, apperrors.Status(err))
		assert.Equal(t, "Benefício não encontrado", apperrors.Message(err, ""))
	})
}

func TestBenefitQRCode(t *testing.T) {
	f := newBenefitFixture()
	id := primitive.NewObjectID()
	f.benefits.On("FindByID", mock.Anything, id).Return(&models.Benefit{ID: id, Code: "CAFE10"}, nil)

	png, err := f.svc.QRCode(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
