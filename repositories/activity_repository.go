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

// ActivityRepository stores one activity kind: trainings or events.
type ActivityRepository struct {
	kind       string
	collection *mongo.Collection
}

// NewActivityRepository returns the store of kind (models.KindTraining or models.KindEvent).
func NewActivityRepository(db *mongo.Database, kind string) *ActivityRepository {
	name := CollTrainings
	if kind == models.KindEvent {
		name = CollEvents
	}
	return &ActivityRepository{kind: kind, collection: db.Collection(name)}
}

func (r *ActivityRepository) Kind() string {
	return r.kind
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, activity)
	return translate(err)
}

func (r *ActivityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var activity models.Activity
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity); err != nil {
		return nil, translate(err)
	}
	return &activity, nil
}

// List returns the activities visible under vis, soonest first. Public
// listings only include dated activities from today on.
func (r *ActivityRepository) List(ctx context.Context, vis models.Visibility, today time.Time) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: 1}})
	return r.find(ctx, ownershipFilter(vis, "data", today, true), opts)
}

func (r *ActivityRepository) ListAll(ctx context.Context) ([]models.Activity, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "data", Value: 1}}))
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Activity, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepository) Update(ctx context.Context, id primitive.ObjectID, set, unset bson.M) (*models.Activity, error) {
	set["updatedAt"] = time.Now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var activity models.Activity
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&activity); err != nil {
		return nil, translate(err)
	}
	return &activity, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateExpired marks every activity dated before cutoff inactive.
func (r *ActivityRepository) DeactivateExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return deactivateExpired(ctx, r.collection, "data", cutoff)
}

// Reserve takes one seat. It returns false when the activity is full.
func (r *ActivityRepository) Reserve(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return reserve(ctx, r.collection, id, "inscritos", "vagas")
}

// Release gives back a seat taken by Reserve.
func (r *ActivityRepository) Release(ctx context.Context, id primitive.ObjectID) error {
	return release(ctx, r.collection, id, "inscritos")
}

// SetEnrolled overwrites the counter; used by cmd/recount.
func (r *ActivityRepository) SetEnrolled(ctx context.Context, id primitive.ObjectID, n int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"inscritos": n}})
	return err
}
