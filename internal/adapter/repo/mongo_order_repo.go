package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/jhjdev/bartender-order-service-sub000/internal/entity"
	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

const ordersCollection = "orders"

// MongoOrderRepo implements usecase.OrderStore on a MongoDB collection.
// Status/payment/note mutations are single findOneAndUpdate calls ($set/$push),
// never read-modify-write overwrites; item mutations receive the freshly
// computed items+total pair from the service and $set both in one update.
type MongoOrderRepo struct {
	col *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{col: db.Collection(ordersCollection)}
}

// EnsureIndexes creates the listing indexes. Safe to call on every startup.
func (r *MongoOrderRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *MongoOrderRepo) Insert(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return o, nil
}

func (r *MongoOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrderRepo) List(ctx context.Context, q usecase.ListOrdersQuery) ([]domain.Order, int64, error) {
	filter := listFilter(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]domain.Order, 0, q.Limit)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// listFilter translates the query into a Mongo filter. paid=false means "not
// fully paid", so partially_paid orders still show up on the open-tabs view.
func listFilter(q usecase.ListOrdersQuery) bson.M {
	filter := bson.M{}
	if q.Status != nil {
		filter["status"] = *q.Status
	}
	if q.Paid != nil {
		if *q.Paid {
			filter["paymentStatus"] = domain.PaymentPaid
		} else {
			filter["paymentStatus"] = bson.M{"$ne": domain.PaymentPaid}
		}
	}
	if q.Table != "" {
		filter["tableNumber"] = q.Table
	}
	return filter
}

// fieldSet translates a patch into the $set document; nil fields stay out so
// they are never cleared.
func fieldSet(patch usecase.FieldPatch) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.PaymentStatus != nil {
		set["paymentStatus"] = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		set["paymentMethod"] = *patch.PaymentMethod
	}
	if patch.CompletedAt != nil {
		set["completedAt"] = *patch.CompletedAt
	}
	return set
}

func (r *MongoOrderRepo) SetFields(ctx context.Context, id string, patch usecase.FieldPatch) (*domain.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": fieldSet(patch)})
}

// SetStatusIf conditions the update on the status the caller validated
// against, so a transition that raced ahead of us cannot be overwritten.
func (r *MongoOrderRepo) SetStatusIf(ctx context.Context, id string, from domain.OrderStatus, patch usecase.FieldPatch) (*domain.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o domain.Order
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": fieldSet(patch)}, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// A missing document and a lost race look identical to the filter.
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, usecase.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MongoOrderRepo) SetItems(ctx context.Context, id string, items []domain.OrderItem, total float64) (*domain.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	// items and totalAmount always travel together; a document can never hold
	// one without the other.
	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": bson.M{
		"items":       items,
		"totalAmount": total,
		"updatedAt":   time.Now().UTC(),
	}})
}

func (r *MongoOrderRepo) PushNote(ctx context.Context, id string, note domain.OrderNote) (*domain.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoOrderRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepo) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update any) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o domain.Order
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// parseID maps malformed object ids to ErrNotFound; they cannot match any
// stored document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, usecase.ErrNotFound
	}
	return oid, nil
}

var _ usecase.OrderStore = (*MongoOrderRepo)(nil)
