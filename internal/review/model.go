package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID          string    `json:"id"                    bson:"_id"`
	StudentID   string    `json:"studentId"             bson:"studentId"`
	StudentName string    `json:"studentName,omitempty" bson:"-"`
	StallID     string    `json:"stallId"               bson:"stallId"`
	MenuItemID  string    `json:"menuItemId,omitempty"  bson:"menuItemId,omitempty"`
	Rating      int       `json:"rating"                bson:"rating"`
	Review      string    `json:"review"                bson:"review"`
	Images      []string  `json:"images"                bson:"images"`
	CreatedAt   time.Time `json:"createdAt"             bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"             bson:"updatedAt"`
}
