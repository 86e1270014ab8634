package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/campus-eats/internal/student"
)

type StudentRepo struct {
	c       *mongo.Collection
	timeout time.Duration
}

func (r *StudentRepo) Create(ctx context.Context, s *student.Student) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	doc := *s
	// $push on a null array fails, so favorites always starts as []
	if doc.Favorites == nil {
		doc.Favorites = []student.Favorite{}
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.ErrEmailTaken
		}
		return wrap(err, "insert student")
	}
	return nil
}

func (r *StudentRepo) findOne(ctx context.Context, filter bson.M) (*student.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var s student.Student
	if err := r.c.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, student.ErrNotFound
		}
		return nil, wrap(err, "find student")
	}
	return &s, nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*student.Student, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *StudentRepo) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, wrap(err, "find students")
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var row struct {
			ID   string `bson:"_id"`
			Name string `bson:"name"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, wrap(err, "decode student")
		}
		out[row.ID] = row.Name
	}
	return out, wrap(cur.Err(), "iterate students")
}

func (r *StudentRepo) SetTheme(ctx context.Context, id string, theme student.Theme) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"themePreference": theme, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return wrap(err, "set theme")
	}
	if res.MatchedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}

// AddFavorite pushes only when no entry blocks it, so two concurrent adds cannot both land.
func (r *StudentRepo) AddFavorite(ctx context.Context, id string, f student.Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	filter := bson.M{
		"_id": id,
		"favorites": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"stallId":    f.StallID,
			"menuItemId": bson.M{"$in": []string{f.MenuItemID, student.AllItems}},
		}}},
	}
	update := bson.M{
		"$push": bson.M{"favorites": f},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrap(err, "add favorite")
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "count student")
	}
	if n == 0 {
		return student.ErrNotFound
	}
	return student.ErrDuplicateFavorite
}

func (r *StudentRepo) RemoveFavorites(ctx context.Context, id, stallID, menuItemID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	match := bson.M{"stallId": stallID}
	if menuItemID != student.AllItems {
		match["menuItemId"] = menuItemID
	}
	res, err := r.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"favorites": match},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return wrap(err, "remove favorite")
	}
	if res.MatchedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (r *StudentRepo) PurgeStallFavorites(ctx context.Context, stallID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.UpdateMany(ctx,
		bson.M{"favorites.stallId": stallID},
		bson.M{"$pull": bson.M{"favorites": bson.M{"stallId": stallID}}})
	if err != nil {
		return 0, wrap(err, "purge favorites")
	}
	return res.ModifiedCount, nil
}
