package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/apperrors"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

type mockList[T any] struct{ mock.Mock }

func (m *mockList[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]T)
	return rows, args.Error(1)
}

func (m *mockList[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

func (m *mockList[T]) Insert(ctx context.Context, doc *T) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockList[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	args := m.Called(ctx, id, set)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

func (m *mockList[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockGallery struct {
	mockList[models.GalleryImage]
}

func (m *mockGallery) Reorder(ctx context.Context, order map[primitive.ObjectID]int) error {
	return m.Called(ctx, order).Error(0)
}

type mockSingleton[T any] struct{ mock.Mock }

func (m *mockSingleton[T]) Get(ctx context.Context, defaults func() *T) (*T, error) {
	args := m.Called(ctx)
	if doc, ok := args.Get(0).(*T); ok {
		return doc, args.Error(1)
	}
	return defaults(), args.Error(1)
}

func (m *mockSingleton[T]) Save(ctx context.Context, set bson.M) (*T, error) {
	args := m.Called(ctx, set)
	doc, _ := args.Get(0).(*T)
	return doc, args.Error(1)
}

type contentFixture struct {
	gallery  *mockGallery
	board    *mockList[models.BoardMember]
	partners *mockList[models.Partner]
	about    *mockSingleton[models.About]
	settings *mockSingleton[models.Settings]
	svc      *ContentService
}

var contentNow = time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC)

func newContentFixture() *contentFixture {
	f := &contentFixture{
		gallery:  &mockGallery{},
		board:    &mockList[models.BoardMember]{},
		partners: &mockList[models.Partner]{},
		about:    &mockSingleton[models.About]{},
		settings: &mockSingleton[models.Settings]{},
	}
	f.svc = NewContentService(f.gallery, f.board, f.partners, f.about, f.settings)
	f.svc.now = fixedClock(contentNow)
	return f
}

func TestCreateImage(t *testing.T) {
	f := newContentFixture()
	f.gallery.On("Insert", mock.Anything, mock.MatchedBy(func(img *models.GalleryImage) bool {
		return img.Title == "Feira 2024" && img.URL == "https://cdn.aecac.org.br/feira.jpg"
	})).Return(nil)

	img, err := f.svc.CreateImage(context.Background(), models.GalleryInput{
		URL:   strPtr("https://cdn.aecac.org.br/feira.jpg"),
		Title: strPtr("<i>Feira 2024</i>"),
	})
	require.NoError(t, err)
	assert.Equal(t, contentNow, img.CreatedAt)

	_, err = f.svc.CreateImage(context.Background(), models.GalleryInput{URL: strPtr("x")})
	assert.Equal(t, "URL e título são obrigatórios", apperrors.Message(err, ""))
}

func TestReorderGallery(t *testing.T) {
	f := newContentFixture()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	var req models.GalleryOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"imagens":[{"id":"`+a.Hex()+`","order":2},{"id":"`+b.Hex()+`","order":1}]}`), &req))
	f.gallery.On("Reorder", mock.Anything, map[primitive.ObjectID]int{a: 2, b: 1}).Return(nil)
	require.NoError(t, f.svc.ReorderGallery(context.Background(), req))

	require.NoError(t, json.Unmarshal([]byte(`{"imagens":[{"id":"nope","order":1}]}`), &req))
	err := f.svc.ReorderGallery(context.Background(), req)
	assert.Equal(t, 400, apperrors.Status(err))

	err = f.svc.ReorderGallery(context.Background(), models.GalleryOrderRequest{})
	assert.Equal(t, "Lista de imagens inválida", apperrors.Message(err, ""))
}

func TestUpdateMemberClearsPhoto(t *testing.T) {
	f := newContentFixture()
	id := primitive.NewObjectID()
	f.board.On("Update", mock.Anything, id, bson.M{"cargo": "Tesoureiro", "foto": nil}).Return(&models.BoardMember{ID: id}, nil)

	_, err := f.svc.UpdateMember(context.Background(), id, models.BoardMemberInput{Role: strPtr("Tesoureiro"), Photo: strPtr("")})
	require.NoError(t, err)

	f.board.On("Delete", mock.Anything, id).Return(repositories.ErrNotFound)
	err = f.svc.DeleteMember(context.Background(), id)
	assert.Equal(t, "Membro não encontrado", apperrors.Message(err, ""))
}

func TestCreatePartnerDefaultsColor(t *testing.T) {
	f := newContentFixture()
	f.partners.On("Insert", mock.Anything, mock.Anything).Return(nil)

	p, err := f.svc.CreatePartner(context.Background(), models.PartnerInput{Name: strPtr("Banco Local")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPartnerColor, p.Color)
}

func TestAboutAndSettingsDefaults(t *testing.T) {
	f := newContentFixture()
	f.about.On("Get", mock.Anything).Return(nil, nil)
	f.settings.On("Get", mock.Anything).Return(nil, nil)

	about, err := f.svc.GetAbout(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, about.Values)
	assert.Empty(t, about.Goals)

	settings, err := f.svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMonthlyFee, settings.MonthlyFee)
}

func TestSaveSettings(t *testing.T) {
	f := newContentFixture()
	negative := -1.0
	_, err := f.svc.SaveSettings(context.Background(), models.SettingsInput{MonthlyFee: &negative})
	assert.Equal(t, "Valor da mensalidade inválido", apperrors.Message(err, ""))

	fee := 150.0
	f.settings.On("Save", mock.Anything, bson.M{
		"contato":          models.ContactInfo{Phone: "11 4000-0000", Email: "contato@aecac.org.br", Address: "Rua A"},
		"valorMensalidade": 150.0,
	}).Return(&models.Settings{MonthlyFee: fee}, nil)

	saved, err := f.svc.SaveSettings(context.Background(), models.SettingsInput{
		Contact:    &models.ContactInfo{Phone: " 11 4000-0000 ", Email: "Contato@AECAC.org.br", Address: "<p>Rua A</p>"},
		MonthlyFee: &fee,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, saved.MonthlyFee)
}

func TestSaveAboutDropsBlankItems(t *testing.T) {
	f := newContentFixture()
	f.about.On("Save", mock.Anything, bson.M{
		"missao":  "Fortalecer o comércio",
		"valores": []string{"Ética", "União"},
	}).Return(&models.About{}, nil)

	_, err := f.svc.SaveAbout(context.Background(), models.AboutInput{
		Mission: strPtr("Fortalecer o comércio"),
		Values:  []string{"Ética", " ", "<b></b>", "União"},
	})
	require.NoError(t, err)
	f.about.AssertExpectations(t)
}
