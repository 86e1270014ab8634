package stall

// RegisterRequest payload de registro de puesto.
// swagger:model StallRegisterRequest
type RegisterRequest struct {
	Name        string `json:"name"        binding:"required"       example:"Dosa Corner"`
	Email       string `json:"email"       binding:"required,email" example:"dosa@campus.edu"`
	Password    string `json:"password"    binding:"required"       example:"changeme"`
	Description string `json:"description"                          example:"South Indian breakfast"`
	CuisineType string `json:"cuisineType" binding:"omitempty,cuisine" example:"Indian"`
	// Kind defaults to simple.
	Kind string `json:"kind" binding:"omitempty,oneof=standard simple" example:"standard"`
}

// LoginRequest payload de login.
// swagger:model StallLoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"dosa@campus.edu"`
	Password string `json:"password" binding:"required" example:"changeme"`
}

// MenuItemRequest payload de alta de plato.
// swagger:model MenuItemRequest
type MenuItemRequest struct {
	StallID              string                `json:"stallID" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Name                 string                `json:"name"    binding:"required" example:"Masala Dosa"`
	Price                float64               `json:"price"   binding:"required,gt=0" example:"60"`
	Description          string                `json:"description"`
	Category             string                `json:"category"`
	Image                string                `json:"image"`
	IsAvailable          *bool                 `json:"isAvailable"`
	NutritionInfo        *NutritionPatch       `json:"nutritionInfo"`
	CustomizationOptions []CustomizationOption `json:"customizationOptions"`
}

// UpdateMenuItemRequest payload de actualización parcial; campos nulos no cambian.
// swagger:model UpdateMenuItemRequest
type UpdateMenuItemRequest struct {
	Name                 *string               `json:"name"`
	Price                *float64              `json:"price" binding:"omitempty,gt=0"`
	Description          *string               `json:"description"`
	Category             *string               `json:"category"`
	Image                *string               `json:"image"`
	IsAvailable          *bool                 `json:"isAvailable"`
	NutritionInfo        *NutritionPatch       `json:"nutritionInfo"`
	CustomizationOptions []CustomizationOption `json:"customizationOptions"`
}

type NutritionPatch struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

func (p *NutritionPatch) apply(n NutritionInfo) NutritionInfo {
	if p == nil {
		return n
	}
	if p.Calories != nil {
		n.Calories = *p.Calories
	}
	if p.Protein != nil {
		n.Protein = *p.Protein
	}
	if p.Carbs != nil {
		n.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		n.Fat = *p.Fat
	}
	return n
}

// ListResponse represents the list of stalls.
// swagger:model StallListResponse
type ListResponse struct {
	Items []Stall `json:"items"`
}
