package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
)

// The interfaces below are the storage contracts of the services. The Mongo
// repositories satisfy them; tests substitute mocks.

type AccountStore interface {
	FindAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	CountAdmins(ctx context.Context) (int64, error)
	InsertAdmin(ctx context.Context, admin *models.Admin) error
	UpdateAdmin(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id primitive.ObjectID) error
	FindAssociateByID(ctx context.Context, id primitive.ObjectID) (*models.Associate, error)
	FindAssociateByEmail(ctx context.Context, email string) (*models.Associate, error)
	ListAssociates(ctx context.Context) ([]models.Associate, error)
	InsertAssociate(ctx context.Context, associate *models.Associate) error
	UpdateAssociate(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Associate, error)
	EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error)
	AccountIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type CompanyStore interface {
	Insert(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	FindApprovedByEmail(ctx context.Context, email string) (*models.Company, error)
	ListApproved(ctx context.Context) ([]models.Company, error)
	ListByStatus(ctx context.Context, status string) ([]models.Company, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Company, error)
	Transition(ctx context.Context, id primitive.ObjectID, from, to string, by primitive.ObjectID, at time.Time) (*models.Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.CompanySummary, error)
}

type BenefitStore interface {
	Insert(ctx context.Context, benefit *models.Benefit) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error)
	FindByCode(ctx context.Context, code string) (*models.Benefit, error)
	CodeTaken(ctx context.Context, code string, except primitive.ObjectID) (bool, error)
	List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Benefit, error)
	ListAll(ctx context.Context) ([]models.Benefit, error)
	ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Benefit, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Benefit, error)
	Touch(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error)
	Reserve(ctx context.Context, id primitive.ObjectID) (bool, error)
	Release(ctx context.Context, id primitive.ObjectID) error
}

type RedemptionStore interface {
	Insert(ctx context.Context, redemption *models.Redemption) error
	ListByBenefits(ctx context.Context, ids []primitive.ObjectID) (accounts, guests []models.Redemption, err error)
}

type ActivityStore interface {
	Insert(ctx context.Context, activity *models.Activity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error)
	List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Activity, error)
	ListAll(ctx context.Context) ([]models.Activity, error)
	Update(ctx context.Context, id primitive.ObjectID, set, unset bson.M) (*models.Activity, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error)
	Reserve(ctx context.Context, id primitive.ObjectID) (bool, error)
	Release(ctx context.Context, id primitive.ObjectID) error
}

type EnrollmentStore interface {
	Insert(ctx context.Context, enrollment *models.Enrollment) error
	Exists(ctx context.Context, kind string, itemID primitive.ObjectID, who repositories.Registrant) (bool, error)
	Delete(ctx context.Context, kind string, itemID primitive.ObjectID, who repositories.Registrant) (bool, error)
	ListByItem(ctx context.Context, kind string, itemID primitive.ObjectID) ([]models.Enrollment, error)
	CountByItem(ctx context.Context, kind string, itemID primitive.ObjectID) (int64, error)
	DeleteByItem(ctx context.Context, kind string, itemID primitive.ObjectID) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) error
	InsertMany(ctx context.Context, batch []models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, read *bool) ([]models.Notification, error)
	SetRead(ctx context.Context, id, userID primitive.ObjectID, read bool) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	InsertPending(ctx context.Context, p *models.PendingNotification) error
	TakePending(ctx context.Context, email string) ([]models.PendingNotification, error)
}

// ListStore is the CRUD contract of one site content collection.
type ListStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SingletonStore[T any] interface {
	Get(ctx context.Context, defaults func() *T) (*T, error)
	Save(ctx context.Context, set bson.M) (*T, error)
}

type GalleryStore interface {
	ListStore[models.GalleryImage]
	Reorder(ctx context.Context, order map[primitive.ObjectID]int) error
}

// Clock returns the current time; tests pin it.
type Clock func() time.Time
