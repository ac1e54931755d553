package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WenderAlvesSantos/api-aecac/models"
)

// RedemptionRepository keeps account redemptions and guest redemptions in
// two collections with the same document shape.
type RedemptionRepository struct {
	accounts *mongo.Collection
	guests   *mongo.Collection
}

func NewRedemptionRepository(db *mongo.Database) *RedemptionRepository {
	return &RedemptionRepository{
		accounts: db.Collection(CollRedemptions),
		guests:   db.Collection(CollGuestRedemptions),
	}
}

func (r *RedemptionRepository) collectionFor(redemption *models.Redemption) *mongo.Collection {
	if redemption.AccountID != nil {
		return r.accounts
	}
	return r.guests
}

// Insert records a redemption. A second redemption by the same identity
// yields ErrDuplicate through the unique indexes.
func (r *RedemptionRepository) Insert(ctx context.Context, redemption *models.Redemption) error {
	if redemption.ID.IsZero() {
		redemption.ID = primitive.NewObjectID()
	}
	_, err := r.collectionFor(redemption).InsertOne(ctx, redemption)
	return translate(err)
}

// ListByBenefits returns the account and guest redemptions of the given benefits.
func (r *RedemptionRepository) ListByBenefits(ctx context.Context, ids []primitive.ObjectID) (accounts, guests []models.Redemption, err error) {
	accounts, guests = []models.Redemption{}, []models.Redemption{}
	if len(ids) == 0 {
		return accounts, guests, nil
	}
	filter := bson.M{"beneficioId": bson.M{"$in": ids}}
	opts := options.Find().SetSort(bson.D{{Key: "dataResgate", Value: -1}})

	cursor, err := r.accounts.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, nil, err
	}

	cursor, err = r.guests.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, nil, err
	}
	return accounts, guests, nil
}

// CountByBenefit counts redemptions of both kinds.
func (r *RedemptionRepository) CountByBenefit(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var total int64
	for _, coll := range []*mongo.Collection{r.accounts, r.guests} {
		n, err := coll.CountDocuments(ctx, bson.M{"beneficioId": id})
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
