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

// UserRepository stores both account kinds: administrators and associates.
type UserRepository struct {
	admins     *mongo.Collection
	associates *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		admins:     db.Collection(CollAdmins),
		associates: db.Collection(CollAssociates),
	}
}

// adminFilter excludes legacy rows of "users" that carry another tipo.
func adminFilter(extra bson.M) bson.M {
	filter := bson.M{"tipo": bson.M{"$in": bson.A{nil, models.AccountAdmin}}}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func (r *UserRepository) FindAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.admins.FindOne(ctx, adminFilter(bson.M{"_id": id})).Decode(&admin); err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *UserRepository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	opts := options.FindOne().SetCollation(caseInsensitive)
	if err := r.admins.FindOne(ctx, adminFilter(bson.M{"email": email}), opts).Decode(&admin); err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.admins.Find(ctx, adminFilter(nil), opts)
	if err != nil {
		return nil, err
	}
	admins := []models.Admin{}
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	return r.admins.CountDocuments(ctx, adminFilter(nil))
}

func (r *UserRepository) InsertAdmin(ctx context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.Tipo = models.AccountAdmin
	_, err := r.admins.InsertOne(ctx, admin)
	return translate(err)
}

// UpdateAdmin applies set and returns the updated account.
func (r *UserRepository) UpdateAdmin(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Admin, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var admin models.Admin
	err := r.admins.FindOneAndUpdate(ctx, adminFilter(bson.M{"_id": id}), bson.M{"$set": set}, opts).Decode(&admin)
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *UserRepository) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.admins.DeleteOne(ctx, adminFilter(bson.M{"_id": id}))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindAssociateByID(ctx context.Context, id primitive.ObjectID) (*models.Associate, error) {
	var associate models.Associate
	if err := r.associates.FindOne(ctx, bson.M{"_id": id}).Decode(&associate); err != nil {
		return nil, translate(err)
	}
	return &associate, nil
}

func (r *UserRepository) FindAssociateByEmail(ctx context.Context, email string) (*models.Associate, error) {
	var associate models.Associate
	opts := options.FindOne().SetCollation(caseInsensitive)
	if err := r.associates.FindOne(ctx, bson.M{"email": email}, opts).Decode(&associate); err != nil {
		return nil, translate(err)
	}
	return &associate, nil
}

func (r *UserRepository) ListAssociates(ctx context.Context) ([]models.Associate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.associates.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	associates := []models.Associate{}
	if err := cursor.All(ctx, &associates); err != nil {
		return nil, err
	}
	return associates, nil
}

func (r *UserRepository) InsertAssociate(ctx context.Context, associate *models.Associate) error {
	if associate.ID.IsZero() {
		associate.ID = primitive.NewObjectID()
	}
	_, err := r.associates.InsertOne(ctx, associate)
	return translate(err)
}

func (r *UserRepository) UpdateAssociate(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Associate, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var associate models.Associate
	err := r.associates.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&associate)
	if err != nil {
		return nil, translate(err)
	}
	return &associate, nil
}

// UpdatePassword sets a new hash on whichever account kind owns email.
// It reports whether an account was found.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, hash string, associate bool) (bool, error) {
	coll, filter := r.admins, adminFilter(bson.M{"email": email})
	if associate {
		coll, filter = r.associates, bson.M{"email": email}
	}
	opts := options.Update().SetCollation(caseInsensitive)
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now()}}, opts)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// EmailTaken reports whether any account other than except uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, except primitive.ObjectID) (bool, error) {
	filter := bson.M{"email": email}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}
	opts := options.Count().SetCollation(caseInsensitive).SetLimit(1)
	for _, coll := range []*mongo.Collection{r.admins, r.associates} {
		n, err := coll.CountDocuments(ctx, filter, opts)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// AccountIDs returns the ids of every admin and associate.
func (r *UserRepository) AccountIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	for _, q := range []struct {
		coll   *mongo.Collection
		filter bson.M
	}{
		{r.admins, adminFilter(nil)},
		{r.associates, bson.M{}},
	} {
		cursor, err := q.coll.Find(ctx, q.filter, opts)
		if err != nil {
			return nil, err
		}
		var rows []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, err
		}
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}
