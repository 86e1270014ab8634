// Package mongo implements the repositories on MongoDB. Favorites and menus are embedded
// arrays; orders and reviews are their own collections.
package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MikeMC777/campus-eats/internal/apperr"
)

const (
	studentsColl = "students"
	stallsColl   = "stalls"
	ordersColl   = "orders"
	reviewsColl  = "reviews"
)

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect dials uri, pings the primary and ensures indexes.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout).SetRegistry(registry())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperr.Unavailable(errors.Wrap(err, "mongo ping"))
	}
	s := &Store{client: client, db: client.Database(database), timeout: timeout}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Infof("[mongo] connected db=%s", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		studentsColl: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "favorites.stallId", Value: 1}}},
		},
		stallsColl: {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		ordersColl: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "stallId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		reviewsColl: {{Keys: bson.D{{Key: "stallId", Value: 1}, {Key: "menuItemId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "indexes %s", coll)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// Ping backs the health check.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Students() *StudentRepo { return &StudentRepo{c: s.db.Collection(studentsColl), timeout: s.timeout} }
func (s *Store) Stalls() *StallRepo     { return &StallRepo{c: s.db.Collection(stallsColl), timeout: s.timeout} }
func (s *Store) Orders() *OrderRepo     { return &OrderRepo{c: s.db.Collection(ordersColl), timeout: s.timeout} }
func (s *Store) Reviews() *ReviewRepo   { return &ReviewRepo{c: s.db.Collection(reviewsColl), timeout: s.timeout} }

// wrap tags connectivity failures as unavailable and annotates the rest.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return apperr.Unavailable(errors.Wrap(err, op))
	}
	return errors.Wrap(err, op)
}
