package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WenderAlvesSantos/api-aecac/models"
)

// Collection names.
const (
	CollAdmins               = "users"
	CollAssociates           = "users_associados"
	CollCompanies            = "empresas"
	CollBenefits             = "beneficios"
	CollRedemptions          = "resgates"
	CollGuestRedemptions     = "resgates_publicos"
	CollTrainings            = "capacitacoes"
	CollEvents               = "eventos"
	CollEnrollments          = "inscricoes"
	CollNotifications        = "notificacoes"
	CollPendingNotifications = "notificacoes_pendentes"
	CollGallery              = "galeria"
	CollBoard                = "diretoria"
	CollPartners             = "parceiros"
	CollAbout                = "sobre"
	CollSettings             = "configuracoes"
)

// AllCollections lists every collection the API owns.
var AllCollections = []string{
	CollAdmins, CollAssociates, CollCompanies, CollBenefits, CollRedemptions,
	CollGuestRedemptions, CollTrainings, CollEvents, CollEnrollments,
	CollNotifications, CollPendingNotifications, CollGallery, CollBoard,
	CollPartners, CollAbout, CollSettings,
}

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// translate maps driver errors to the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// caseInsensitive matches strings regardless of case without a regex scan.
var caseInsensitive = &options.Collation{Locale: "pt", Strength: 2}

// ownershipFilter builds the listing filter shared by benefits and activities.
// dateField is the field whose past values mean "expired".
func ownershipFilter(vis models.Visibility, dateField string, today time.Time, requireDate bool) bson.M {
	switch vis.Scope {
	case models.ScopeCompany:
		return bson.M{"empresaId": vis.CompanyID}
	case models.ScopeHouse:
		return bson.M{"empresaId": nil}
	}

	notExpired := bson.A{bson.M{dateField: bson.M{"$gte": today}}}
	if !requireDate {
		notExpired = append(notExpired, bson.M{dateField: nil})
	}
	return bson.M{
		"ativo": bson.M{"$ne": false},
		"$or":   notExpired,
	}
}

// reserveFilter matches the document only while counterField < limitField
// or when limitField is unset.
func reserveFilter(id primitive.ObjectID, counterField, limitField string) bson.M {
	return bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{limitField: nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{
				bson.M{"$ifNull": bson.A{"$" + counterField, 0}},
				"$" + limitField,
			}}},
		},
	}
}

func reserve(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, counterField, limitField string) (bool, error) {
	res, err := coll.UpdateOne(ctx, reserveFilter(id, counterField, limitField), bson.M{
		"$inc": bson.M{counterField: 1},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func release(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, counterField string) error {
	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, counterField: bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{counterField: -1}},
	)
	return err
}

// deactivateExpired flips ativo=false on records whose dateField is before cutoff.
func deactivateExpired(ctx context.Context, coll *mongo.Collection, dateField string, cutoff time.Time) (int64, error) {
	res, err := coll.UpdateMany(ctx,
		bson.M{"ativo": bson.M{"$ne": false}, dateField: bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"ativo": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
