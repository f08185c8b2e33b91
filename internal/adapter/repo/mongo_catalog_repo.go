package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

const drinksCollection = "drinks"

// MongoCatalogRepo is the read-only view into the menu service's drinks
// collection, used to snapshot name and price at item-add time.
type MongoCatalogRepo struct {
	col *mongo.Collection
}

func NewMongoCatalogRepo(db *mongo.Database) *MongoCatalogRepo {
	return &MongoCatalogRepo{col: db.Collection(drinksCollection)}
}

// FindByIDs returns the drinks whose ids resolve, keyed by hex id. Ids that do
// not parse or do not exist are simply absent from the map; the caller treats
// absence as a validation failure.
func (r *MongoCatalogRepo) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Drink, error) {
	out := make(map[string]domain.Drink, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var drinks []domain.Drink
	if err := cur.All(ctx, &drinks); err != nil {
		return nil, err
	}
	for _, d := range drinks {
		out[d.ID.Hex()] = d
	}
	return out, nil
}

var _ usecase.Catalog = (*MongoCatalogRepo)(nil)
