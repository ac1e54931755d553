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

type CompanyRepository struct {
	collection *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{collection: db.Collection(CollCompanies)}
}

// Insert stores a new company. A CNPJ already on file yields ErrDuplicate.
func (r *CompanyRepository) Insert(ctx context.Context, company *models.Company) error {
	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, company)
	return translate(err)
}

func (r *CompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	var company models.Company
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company); err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *CompanyRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"cnpj": cnpj}, options.Count().SetLimit(1))
	return n > 0, err
}

// FindApprovedByEmail returns the approved company registered with email.
func (r *CompanyRepository) FindApprovedByEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	opts := options.FindOne().SetCollation(caseInsensitive)
	filter := bson.M{"email": email, "status": models.CompanyApproved}
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&company); err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *CompanyRepository) ListApproved(ctx context.Context) ([]models.Company, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}}).SetCollation(caseInsensitive)
	return r.find(ctx, bson.M{"status": models.CompanyApproved}, opts)
}

// ListByStatus returns companies in status, newest first. An empty status lists all.
func (r *CompanyRepository) ListByStatus(ctx context.Context, status string) ([]models.Company, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *CompanyRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Company, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	companies := []models.Company{}
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Company, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var company models.Company
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&company); err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// Transition moves a company from one status to another in a single update.
// ErrNotFound means the company is missing or no longer in status from.
func (r *CompanyRepository) Transition(ctx context.Context, id primitive.ObjectID, from, to string, by primitive.ObjectID, at time.Time) (*models.Company, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	set := bson.M{"status": to, "aprovadoPor": by, "updatedAt": at}
	update := bson.M{"$set": set}
	if to == models.CompanyApproved {
		set["aprovadoEm"] = at
	} else {
		update["$unset"] = bson.M{"aprovadoEm": ""}
	}
	var company models.Company
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, opts).Decode(&company)
	if err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Summaries loads name and image of the given companies.
func (r *CompanyRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.CompanySummary, error) {
	out := make(map[primitive.ObjectID]*models.CompanySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"nome": 1, "imagem": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var rows []models.CompanySummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
