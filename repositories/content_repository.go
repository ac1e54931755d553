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

// ListStore is a plain CRUD collection of site content documents.
type ListStore[T any] struct {
	collection *mongo.Collection
	sort       bson.D
}

func newListStore[T any](db *mongo.Database, name string, sort bson.D) *ListStore[T] {
	return &ListStore[T]{collection: db.Collection(name), sort: sort}
}

func (s *ListStore[T]) List(ctx context.Context) ([]T, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(s.sort))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ListStore[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// Insert stores doc. The caller assigns its _id.
func (s *ListStore[T]) Insert(ctx context.Context, doc *T) error {
	_, err := s.collection.InsertOne(ctx, doc)
	return translate(err)
}

func (s *ListStore[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *ListStore[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GalleryStore adds ordering to the gallery collection.
type GalleryStore struct {
	*ListStore[models.GalleryImage]
}

// Reorder sets the order of many images in one bulk write.
func (s *GalleryStore) Reorder(ctx context.Context, order map[primitive.ObjectID]int) error {
	if len(order) == 0 {
		return nil
	}
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(order))
	for id, pos := range order {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"order": pos, "updatedAt": now}}))
	}
	_, err := s.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

// Singleton is a collection holding at most one document.
type Singleton[T any] struct {
	collection *mongo.Collection
}

// Get returns the document, storing defaults first when none exists.
func (s *Singleton[T]) Get(ctx context.Context, defaults func() *T) (*T, error) {
	var doc T
	err := s.collection.FindOne(ctx, bson.M{}).Decode(&doc)
	if err == nil {
		return &doc, nil
	}
	if translate(err) != ErrNotFound {
		return nil, err
	}
	d := defaults()
	if _, err := s.collection.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Save applies set to the document, creating it when absent.
func (s *Singleton[T]) Save(ctx context.Context, set bson.M) (*T, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc T
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ContentRepository groups the institutional site collections.
type ContentRepository struct {
	Gallery  *GalleryStore
	Board    *ListStore[models.BoardMember]
	Partners *ListStore[models.Partner]
	About    *Singleton[models.About]
	Settings *Singleton[models.Settings]
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		Gallery: &GalleryStore{newListStore[models.GalleryImage](db, CollGallery,
			bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}})},
		Board:    newListStore[models.BoardMember](db, CollBoard, bson.D{{Key: "createdAt", Value: 1}}),
		Partners: newListStore[models.Partner](db, CollPartners, bson.D{{Key: "nome", Value: 1}}),
		About:    &Singleton[models.About]{collection: db.Collection(CollAbout)},
		Settings: &Singleton[models.Settings]{collection: db.Collection(CollSettings)},
	}
}
