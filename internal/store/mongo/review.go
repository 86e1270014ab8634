package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/campus-eats/internal/review"
)

type ReviewRepo struct {
	c       *mongo.Collection
	timeout time.Duration
}

func (r *ReviewRepo) Create(ctx context.Context, rv *review.Review) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err := r.c.InsertOne(ctx, rv)
	return wrap(err, "insert review")
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*review.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var rv review.Review
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, review.ErrNotFound
		}
		return nil, wrap(err, "find review")
	}
	return &rv, nil
}

func (r *ReviewRepo) Update(ctx context.Context, rv *review.Review) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.UpdateByID(ctx, rv.ID, bson.M{"$set": bson.M{
		"rating":    rv.Rating,
		"review":    rv.Review,
		"images":    rv.Images,
		"updatedAt": rv.UpdatedAt,
	}})
	if err != nil {
		return wrap(err, "update review")
	}
	if res.MatchedCount == 0 {
		return review.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, wrap(err, "delete review")
	}
	return res.DeletedCount == 1, nil
}

func (r *ReviewRepo) ListByStall(ctx context.Context, stallID, menuItemID string) ([]review.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	filter := bson.M{"stallId": stallID}
	if menuItemID != "" {
		filter["menuItemId"] = menuItemID
	}
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, wrap(err, "list reviews")
	}
	out := []review.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap(err, "decode reviews")
	}
	return out, nil
}
