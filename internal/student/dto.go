package student

import (
	"time"

	"github.com/MikeMC777/campus-eats/internal/stall"
)

// RegisterRequest payload de registro de estudiante.
// swagger:model StudentRegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required"       example:"Asha"`
	Email    string `json:"email"    binding:"required,email" example:"asha@campus.edu"`
	Password string `json:"password" binding:"required"       example:"changeme"`
}

// LoginRequest payload de login.
// swagger:model StudentLoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"asha@campus.edu"`
	Password string `json:"password" binding:"required" example:"changeme"`
}

// ThemeRequest payload de preferencia de tema.
// swagger:model ThemeRequest
type ThemeRequest struct {
	ThemePreference string `json:"themePreference" binding:"required,theme" example:"dark"`
}

// ThemeResponse returns the stored preference.
// swagger:model ThemeResponse
type ThemeResponse struct {
	ThemePreference Theme `json:"themePreference"`
}

// FavoriteRequest adds or removes a favorite. menuItemId "all" means the whole stall.
// swagger:model FavoriteRequest
type FavoriteRequest struct {
	StallID    string `json:"stallId"    binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	MenuItemID string `json:"menuItemId" binding:"required" example:"all"`
}

// StallRef is the populated stall of a favorite.
type StallRef struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Menu []stall.MenuItem `json:"menu"`
}

// FavoriteView is a favorite with its stall, when the stall still exists.
// swagger:model FavoriteView
type FavoriteView struct {
	StallID    string    `json:"stallId"`
	MenuItemID string    `json:"menuItemId"`
	AddedAt    time.Time `json:"addedAt"`
	Stall      *StallRef `json:"stall,omitempty"`
}
