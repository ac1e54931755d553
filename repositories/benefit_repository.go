package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WenderAlvesSantos/api-aecac/models"
)

type BenefitRepository struct {
	collection *mongo.Collection
}

func NewBenefitRepository(db *mongo.Database) *BenefitRepository {
	return &BenefitRepository{collection: db.Collection(CollBenefits)}
}

// Insert stores a new benefit. A code already in use yields ErrDuplicate.
func (r *BenefitRepository) Insert(ctx context.Context, benefit *models.Benefit) error {
	if benefit.ID.IsZero() {
		benefit.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, benefit)
	return translate(err)
}

func (r *BenefitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error) {
	var benefit models.Benefit
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&benefit); err != nil {
		return nil, translate(err)
	}
	return &benefit, nil
}

func (r *BenefitRepository) FindByCode(ctx context.Context, code string) (*models.Benefit, error) {
	var benefit models.Benefit
	if err := r.collection.FindOne(ctx, bson.M{"codigo": code}).Decode(&benefit); err != nil {
		return nil, translate(err)
	}
	return &benefit, nil
}

// CodeTaken reports whether a benefit other than except uses code.
func (r *BenefitRepository) CodeTaken(ctx context.Context, code string, except primitive.ObjectID) (bool, error) {
	filter := bson.M{"codigo": code}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// List returns the benefits visible under vis, newest first.
func (r *BenefitRepository) List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Benefit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, ownershipFilter(vis, "validade", today, false), opts)
}

func (r *BenefitRepository) ListAll(ctx context.Context) ([]models.Benefit, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *BenefitRepository) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.Benefit, error) {
	return r.find(ctx, bson.M{"empresaId": companyID}, options.Find())
}

func (r *BenefitRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Benefit, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	benefits := []models.Benefit{}
	if err := cursor.All(ctx, &benefits); err != nil {
		return nil, err
	}
	return benefits, nil
}

func (r *BenefitRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Benefit, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var benefit models.Benefit
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&benefit); err != nil {
		return nil, translate(err)
	}
	return &benefit, nil
}

func (r *BenefitRepository) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"updatedAt": time.Now()}})
	return err
}

func (r *BenefitRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateExpired marks every benefit whose validade is before cutoff inactive.
func (r *BenefitRepository) DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return deactivateExpired(ctx, r.collection, "validade", cutoff)
}

// Reserve takes one unit of the benefit. It returns false when every unit is taken.
func (r *BenefitRepository) Reserve(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return reserve(ctx, r.collection, id, "resgatados", "quantidade")
}

// Release gives back a unit taken by Reserve.
func (r *BenefitRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	return release(ctx, r.collection, id, "resgatados")
}

// SetRedeemed overwrites the counter; used by cmd/recount.
func (r *BenefitRepository) SetRedeemed(ctx context.Context, id primitive.ObjectID, n int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"resgatados": n}})
	return err
}
