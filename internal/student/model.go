package student

import "time"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// AllItems as a favorite's menu item id stands for the whole stall.
const AllItems = "all"

type Favorite struct {
	StallID    string    `json:"stallId"    bson:"stallId"`
	MenuItemID string    `json:"menuItemId" bson:"menuItemId"`
	AddedAt    time.Time `json:"addedAt"    bson:"addedAt"`
}

// Blocks reports whether an existing favorite prevents adding (stallID, menuItemID):
// the exact pair, or the whole stall already saved.
func (f Favorite) Blocks(stallID, menuItemID string) bool {
	return f.StallID == stallID && (f.MenuItemID == menuItemID || f.MenuItemID == AllItems)
}

// RemovedBy reports whether a remove request for (stallID, menuItemID) deletes f.
func (f Favorite) RemovedBy(stallID, menuItemID string) bool {
	if f.StallID != stallID {
		return false
	}
	return menuItemID == AllItems || f.MenuItemID == menuItemID
}

type Student struct {
	ID           string     `json:"id"              bson:"_id"`
	Name         string     `json:"name"            bson:"name"`
	Email        string     `json:"email"           bson:"email"`
	PasswordHash string     `json:"-"               bson:"passwordHash"`
	Theme        Theme      `json:"themePreference" bson:"themePreference"`
	Favorites    []Favorite `json:"favorites"       bson:"favorites"`
	CreatedAt    time.Time  `json:"createdAt"       bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"       bson:"updatedAt"`
}
