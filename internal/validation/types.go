package validation

// Line is one cart line submitted for checkout.
type Line struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"min=1"` // must be >= 1
}

// CheckoutRequest is the customer draft plus the cart lines at the moment "Place Order" is pressed.
type CheckoutRequest struct {
	Name          string `json:"name" validate:"required"`
	OrderType     string `json:"order_type" validate:"required,oneof=dine-in take-out"`
	TableNumber   string `json:"table_number" validate:"required_if=OrderType dine-in"`
	Phone         string `json:"phone" validate:"required_if=OrderType take-out"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Lines         []Line `json:"lines" validate:"required,min=1,dive"` // cart must not be empty
}

// StatusUpdateRequest is the payload for PATCH /admin/orders/:id/status
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready delivered"`
}

// CustomerRequest is the payload for PUT /sessions/:id/customer
type CustomerRequest struct {
	Name          string `json:"name"`
	OrderType     string `json:"order_type" validate:"omitempty,oneof=dine-in take-out"`
	TableNumber   string `json:"table_number"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

// CartLineRequest is the payload for POST /sessions/:id/cart/items. Quantity 0 means one, at most 99 per request.
type CartLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// QuantityRequest is the payload for PUT /sessions/:id/cart/items/:productId; 0 or less removes the line.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

// LoginRequest is the payload for POST /admin/login
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// StepRequest moves a session between screens.
type StepRequest struct {
	To string `json:"to" validate:"required,oneof=catalog cart checkout"`
}
