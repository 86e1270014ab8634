package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/campus-eats/internal/order"
)

type OrderRepo struct {
	c       *mongo.Collection
	timeout time.Duration
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if _, err := r.c.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return order.ErrExists
		}
		return wrap(err, "insert order")
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var o order.Order
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrNotFound
		}
		return nil, wrap(err, "find order")
	}
	return &o, nil
}

func (r *OrderRepo) list(ctx context.Context, filter bson.M) ([]order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	out := []order.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap(err, "decode orders")
	}
	return out, nil
}

func (r *OrderRepo) ListByStudent(ctx context.Context, studentID string) ([]order.Order, error) {
	return r.list(ctx, bson.M{"studentId": studentID})
}

func (r *OrderRepo) ListByStall(ctx context.Context, stallID string) ([]order.Order, error) {
	return r.list(ctx, bson.M{"stallId": stallID})
}

// UpdateStatus is a compare-and-set on the status field.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to order.Status, message string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	update := bson.M{"$set": set}
	if message != "" {
		set["statusMessage"] = message
	} else {
		update["$unset"] = bson.M{"statusMessage": ""}
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id, "status": from}, update)
	if err != nil {
		return wrap(err, "update order status")
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "count order")
	}
	if n == 0 {
		return order.ErrNotFound
	}
	return order.ErrStatusConflict
}

func (r *OrderRepo) Delete(ctx context.Context, id string, owner order.Owner) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	filter := bson.M{"_id": id}
	if owner.StudentID != "" {
		filter["studentId"] = owner.StudentID
	}
	if owner.StallID != "" {
		filter["stallId"] = owner.StallID
	}
	res, err := r.c.DeleteOne(ctx, filter)
	if err != nil {
		return false, wrap(err, "delete order")
	}
	return res.DeletedCount == 1, nil
}
