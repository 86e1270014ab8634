package stall

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices go out as JSON numbers, the way clients send them.
func init() { decimal.MarshalJSONWithoutQuotes = true }

// Kind records which legacy schema a stall account came from. Both kinds live in one collection.
type Kind string

const (
	KindStandard Kind = "standard"
	KindSimple   Kind = "simple"
)

func (k Kind) Valid() bool { return k == KindStandard || k == KindSimple }

var Cuisines = []string{"Indian", "Chinese", "Fast Food", "Other"}

const DefaultCategory = "Other"

func ValidCuisine(c string) bool {
	for _, v := range Cuisines {
		if v == c {
			return true
		}
	}
	return false
}

// Rating keeps the running (sum, count) pair; the average is derived on read.
type Rating struct {
	Sum   int `bson:"ratingSum"`
	Count int `bson:"totalReviews"`
}

// Average is the arithmetic mean rounded half-up to one decimal place.
func (r Rating) Average() float64 {
	if r.Count <= 0 {
		return 0
	}
	avg := decimal.NewFromInt(int64(r.Sum)).Div(decimal.NewFromInt(int64(r.Count))).Round(1)
	f, _ := avg.Float64()
	return f
}

type NutritionInfo struct {
	Calories float64 `json:"calories" bson:"calories"`
	Protein  float64 `json:"protein"  bson:"protein"`
	Carbs    float64 `json:"carbs"    bson:"carbs"`
	Fat      float64 `json:"fat"      bson:"fat"`
}

type CustomizationOption struct {
	Name    string          `json:"name"    bson:"name"`
	Options []string        `json:"options" bson:"options"`
	Price   decimal.Decimal `json:"price"   bson:"price"`
}

type MenuItem struct {
	ID                   string                `json:"id"                   bson:"_id"`
	Name                 string                `json:"name"                 bson:"name"`
	Price                decimal.Decimal       `json:"price"                bson:"price"`
	Description          string                `json:"description"          bson:"description"`
	Category             string                `json:"category"             bson:"category"`
	Image                string                `json:"image,omitempty"      bson:"image,omitempty"`
	IsAvailable          bool                  `json:"isAvailable"          bson:"isAvailable"`
	Rating               Rating                `json:"-"                    bson:",inline"`
	AverageRating        float64               `json:"averageRating"        bson:"-"`
	TotalReviews         int                   `json:"totalReviews"         bson:"-"`
	NutritionInfo        NutritionInfo         `json:"nutritionInfo"        bson:"nutritionInfo"`
	CustomizationOptions []CustomizationOption `json:"customizationOptions" bson:"customizationOptions"`
}

type Stall struct {
	ID            string     `json:"id"            bson:"_id"`
	Name          string     `json:"name"          bson:"name"`
	Email         string     `json:"email"         bson:"email"`
	PasswordHash  string     `json:"-"             bson:"passwordHash"`
	Description   string     `json:"description"   bson:"description"`
	CuisineType   string     `json:"cuisineType"   bson:"cuisineType"`
	Kind          Kind       `json:"kind"          bson:"kind"`
	Menu          []MenuItem `json:"menu"          bson:"menu"`
	Rating        Rating     `json:"-"             bson:",inline"`
	AverageRating float64    `json:"averageRating" bson:"-"`
	TotalReviews  int        `json:"totalReviews"  bson:"-"`
	CreatedAt     time.Time  `json:"createdAt"     bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"     bson:"updatedAt"`
}

// FillRatings copies the derived rating fields from the stored (sum, count) pairs.
func (s *Stall) FillRatings() {
	s.AverageRating = s.Rating.Average()
	s.TotalReviews = s.Rating.Count
	if s.Menu == nil {
		s.Menu = []MenuItem{}
	}
	for i := range s.Menu {
		s.Menu[i].AverageRating = s.Menu[i].Rating.Average()
		s.Menu[i].TotalReviews = s.Menu[i].Rating.Count
	}
}

// MenuItemByID returns the index of the item or -1.
func (s *Stall) MenuItemByID(id string) int {
	for i := range s.Menu {
		if s.Menu[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Stall) HasMenuItemNamed(name string) bool {
	for i := range s.Menu {
		if s.Menu[i].Name == name {
			return true
		}
	}
	return false
}
