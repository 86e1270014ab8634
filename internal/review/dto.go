package review

// CreateRequest payload de reseña.
// swagger:model ReviewCreateRequest
type CreateRequest struct {
	StudentID  string   `json:"studentId"  binding:"required"           example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	StallID    string   `json:"stallId"    binding:"required"           example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	MenuItemID string   `json:"menuItemId,omitempty"                    example:"Masala Dosa"`
	Rating     int      `json:"rating"     binding:"required,min=1,max=5" example:"4"`
	Review     string   `json:"review"     binding:"required"           example:"Crispy and hot"`
	Images     []string `json:"images,omitempty"`
}

// UpdateRequest payload de edición; campos nulos no cambian.
// swagger:model ReviewUpdateRequest
type UpdateRequest struct {
	Rating *int      `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Review *string   `json:"review,omitempty"`
	Images *[]string `json:"images,omitempty"`
}

// ListResponse represents a list of reviews, newest first.
// swagger:model ReviewListResponse
type ListResponse struct {
	Items []Review `json:"items"`
}

type ItemSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// Summary is the outcome of a full recompute.
// swagger:model RatingSummary
type Summary struct {
	StallID       string                 `json:"stallId"`
	AverageRating float64                `json:"averageRating"`
	TotalReviews  int                    `json:"totalReviews"`
	MenuItems     map[string]ItemSummary `json:"menuItems"`
}
