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

// NotificationListLimit caps how many notifications a user listing returns.
const NotificationListLimit = 50

type NotificationRepository struct {
	notifications *mongo.Collection
	pending       *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		notifications: db.Collection(CollNotifications),
		pending:       db.Collection(CollPendingNotifications),
	}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	_, err := r.notifications.InsertOne(ctx, n)
	return err
}

// InsertMany stores a fan-out batch in one round trip.
func (r *NotificationRepository) InsertMany(ctx context.Context, batch []models.Notification) error {
	if len(batch) == 0 {
		return nil
	}
	docs := make([]interface{}, len(batch))
	for i := range batch {
		if batch[i].ID.IsZero() {
			batch[i].ID = primitive.NewObjectID()
		}
		docs[i] = batch[i]
	}
	_, err := r.notifications.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// ListByUser returns the newest notifications of userID. A non-nil read
// filters on the read flag.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, read *bool) ([]models.Notification, error) {
	filter := bson.M{"userId": userID}
	if read != nil {
		filter["lida"] = *read
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(NotificationListLimit)
	cursor, err := r.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	list := []models.Notification{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetRead flips the read flag of a notification owned by userID.
func (r *NotificationRepository) SetRead(ctx context.Context, id, userID primitive.ObjectID, read bool) error {
	res, err := r.notifications.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"lida": read, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of userID read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.notifications.UpdateMany(ctx,
		bson.M{"userId": userID, "lida": false},
		bson.M{"$set": bson.M{"lida": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.notifications.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) InsertPending(ctx context.Context, p *models.PendingNotification) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := r.pending.InsertOne(ctx, p)
	return err
}

// TakePending removes and returns every pending notification addressed to email.
func (r *NotificationRepository) TakePending(ctx context.Context, email string) ([]models.PendingNotification, error) {
	filter := bson.M{"email": email}
	cursor, err := r.pending.Find(ctx, filter, options.Find().SetCollation(caseInsensitive))
	if err != nil {
		return nil, err
	}
	var list []models.PendingNotification
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	if _, err := r.pending.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return list, nil
}
