package mongo

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/campus-eats/internal/stall"
)

type StallRepo struct {
	c       *mongo.Collection
	timeout time.Duration
}

func (r *StallRepo) Create(ctx context.Context, s *stall.Stall) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	doc := *s
	if doc.Menu == nil {
		doc.Menu = []stall.MenuItem{}
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return stall.ErrEmailTaken
		}
		return wrap(err, "insert stall")
	}
	return nil
}

func (r *StallRepo) findOne(ctx context.Context, filter bson.M) (*stall.Stall, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var s stall.Stall
	if err := r.c.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stall.ErrNotFound
		}
		return nil, wrap(err, "find stall")
	}
	return &s, nil
}

func (r *StallRepo) GetByID(ctx context.Context, id string) (*stall.Stall, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *StallRepo) GetByEmail(ctx context.Context, email string) (*stall.Stall, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *StallRepo) List(ctx context.Context) ([]stall.Stall, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, wrap(err, "list stalls")
	}
	out := []stall.Stall{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrap(err, "decode stalls")
	}
	return out, nil
}

func (r *StallRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, wrap(err, "delete stall")
	}
	return res.DeletedCount == 1, nil
}

func (r *StallRepo) AddMenuItem(ctx context.Context, stallID string, item stall.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.UpdateByID(ctx, stallID, bson.M{
		"$push": bson.M{"menu": item},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return wrap(err, "add menu item")
	}
	if res.MatchedCount == 0 {
		return stall.ErrNotFound
	}
	return nil
}

// UpdateMenuItem sets the editable fields of one item in place. Rating counters are kept
// while the name stays and reset when it changes.
func (r *StallRepo) UpdateMenuItem(ctx context.Context, stallID string, item stall.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	set := bson.M{
		"menu.$.name":                 item.Name,
		"menu.$.price":                item.Price,
		"menu.$.description":          item.Description,
		"menu.$.category":             item.Category,
		"menu.$.image":                item.Image,
		"menu.$.isAvailable":          item.IsAvailable,
		"menu.$.nutritionInfo":        item.NutritionInfo,
		"menu.$.customizationOptions": item.CustomizationOptions,
		"updatedAt":                   time.Now().UTC(),
	}
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": stallID, "menu": bson.M{"$elemMatch": bson.M{"_id": item.ID, "name": item.Name}}},
		bson.M{"$set": set})
	if err != nil {
		return wrap(err, "update menu item")
	}
	if res.MatchedCount == 1 {
		return nil
	}
	set["menu.$.ratingSum"] = 0
	set["menu.$.totalReviews"] = 0
	res, err = r.c.UpdateOne(ctx, bson.M{"_id": stallID, "menu._id": item.ID}, bson.M{"$set": set})
	if err != nil {
		return wrap(err, "rename menu item")
	}
	if res.MatchedCount == 0 {
		return r.missing(ctx, stallID)
	}
	return nil
}

func (r *StallRepo) DeleteMenuItem(ctx context.Context, stallID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": stallID, "menu._id": itemID},
		bson.M{
			"$pull": bson.M{"menu": bson.M{"_id": itemID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return wrap(err, "delete menu item")
	}
	if res.MatchedCount == 0 {
		return r.missing(ctx, stallID)
	}
	return nil
}

// missing tells a missing stall from a missing menu item after an update matched nothing.
func (r *StallRepo) missing(ctx context.Context, stallID string) error {
	n, err := r.c.CountDocuments(ctx, bson.M{"_id": stallID})
	if err != nil {
		return wrap(err, "count stall")
	}
	if n == 0 {
		return stall.ErrNotFound
	}
	return stall.ErrMenuItemNotFound
}

func (r *StallRepo) IncRating(ctx context.Context, stallID, menuItem string, sum, count int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	inc := bson.M{"ratingSum": sum, "totalReviews": count}
	opts := options.Update()
	if menuItem != "" {
		inc["menu.$[m].ratingSum"] = sum
		inc["menu.$[m].totalReviews"] = count
		opts.SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"m.name": menuItem}}})
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": stallID}, bson.M{"$inc": inc}, opts)
	if err != nil {
		return wrap(err, "inc rating")
	}
	if res.MatchedCount == 0 {
		return stall.ErrNotFound
	}
	return nil
}

// SetRatings writes counters by menu position. The write is guarded by updatedAt so a menu
// edit in between makes it re-read and try again.
func (r *StallRepo) SetRatings(ctx context.Context, stallID string, total stall.Rating, items map[string]stall.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	for attempt := 0; attempt < 3; attempt++ {
		var s stall.Stall
		proj := options.FindOne().SetProjection(bson.M{"menu.name": 1, "updatedAt": 1})
		if err := r.c.FindOne(ctx, bson.M{"_id": stallID}, proj).Decode(&s); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return stall.ErrNotFound
			}
			return wrap(err, "find stall")
		}
		set := bson.M{"ratingSum": total.Sum, "totalReviews": total.Count}
		for i, it := range s.Menu {
			rt := items[it.Name]
			set[menuField(i, "ratingSum")] = rt.Sum
			set[menuField(i, "totalReviews")] = rt.Count
		}
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": stallID, "updatedAt": s.UpdatedAt}, bson.M{"$set": set})
		if err != nil {
			return wrap(err, "set ratings")
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return errors.Errorf("set ratings: stall %s kept changing", stallID)
}

func menuField(i int, name string) string {
	return "menu." + strconv.Itoa(i) + "." + name
}
