package order

// PlaceRequest payload de creación de orden desde el estudiante.
// swagger:model StudentOrderRequest
type PlaceRequest struct {
	ID            string `json:"id,omitempty"`
	StudentID     string `json:"studentId"               example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	StallID       string `json:"stallId,omitempty"       example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Name          string `json:"name,omitempty"          example:"Asha"`
	Items         []Item `json:"items"`
	PickupTime    string `json:"pickupTime,omitempty"    example:"10:30"`
	PaymentStatus string `json:"paymentStatus,omitempty" example:"pending"`
	TransactionID string `json:"transactionId,omitempty"`
}

// StallPlaceRequest payload de creación de orden desde el puesto.
// swagger:model StallOrderRequest
type StallPlaceRequest struct {
	ID            string `json:"id,omitempty"`
	StallID       string `json:"stallId"                 example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	StudentID     string `json:"studentId,omitempty"`
	Name          string `json:"name,omitempty"          example:"Walk-in"`
	Items         []Item `json:"items"`
	PickupTime    string `json:"pickupTime,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
}

// StatusRequest payload de cambio de estado.
// swagger:model StatusRequest
type StatusRequest struct {
	Status  string `json:"status"            binding:"required,orderstatus" example:"completed"`
	Message string `json:"message,omitempty"                    example:"Your order has been Accepted"`
}

// DeleteOrderRequest payload de eliminación desde el puesto.
// swagger:model DeleteOrderRequest
type DeleteOrderRequest struct {
	StallID string `json:"stallId" binding:"required"`
	OrderID string `json:"orderId" binding:"required"`
}

// ListResponse represents a list of orders, newest first.
// swagger:model OrderListResponse
type ListResponse struct {
	Items []Order `json:"items"`
}
