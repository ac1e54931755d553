package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WenderAlvesSantos/api-aecac/models"
)

type EnrollmentRepository struct {
	collection *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{collection: db.Collection(CollEnrollments)}
}

// Registrant identifies who enrolled: an account or a guest CPF.
type Registrant struct {
	AccountID *primitive.ObjectID
	CPF       string
}

func registrantFilter(kind string, itemID primitive.ObjectID, who Registrant) bson.M {
	filter := bson.M{"tipo": kind, "itemId": itemID}
	if who.AccountID != nil {
		filter["userId"] = *who.AccountID
	} else {
		filter["cpf"] = who.CPF
	}
	return filter
}

// Insert records an enrollment. A repeated CPF or account yields ErrDuplicate.
func (r *EnrollmentRepository) Insert(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID.IsZero() {
		enrollment.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, enrollment)
	return translate(err)
}

func (r *EnrollmentRepository) Exists(ctx context.Context, kind string, itemID primitive.ObjectID, who Registrant) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, registrantFilter(kind, itemID, who), options.Count().SetLimit(1))
	return n > 0, err
}

// Delete removes one enrollment and reports whether it existed.
func (r *EnrollmentRepository) Delete(ctx context.Context, kind string, itemID primitive.ObjectID, who Registrant) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, registrantFilter(kind, itemID, who))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListByItem returns the enrollments of one activity, newest first.
func (r *EnrollmentRepository) ListByItem(ctx context.Context, kind string, itemID primitive.ObjectID) ([]models.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dataInscricao", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tipo": kind, "itemId": itemID}, opts)
	if err != nil {
		return nil, err
	}
	enrollments := []models.Enrollment{}
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) CountByItem(ctx context.Context, kind string, itemID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"tipo": kind, "itemId": itemID})
}

// DeleteByItem drops the enrollments of a deleted activity.
func (r *EnrollmentRepository) DeleteByItem(ctx context.Context, kind string, itemID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"tipo": kind, "itemId": itemID})
	return err
}
