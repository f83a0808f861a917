package transport

// CreateOrderItem keeps both quantity spellings the storefront has
// historically sent. The fields are pointers so a present zero can be
// told apart from an absent field: a finite cantidad is authoritative
// even when it is 0.
type CreateOrderItem struct {
	ProductID string   `json:"producto_id"`
	Color     string   `json:"color"`
	Size      string   `json:"talla"`
	Quantity  *float64 `json:"quantity"`
	Cantidad  *float64 `json:"cantidad"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

type OrderIDRequest struct {
	OrderID string `json:"orderId"`
}

type RequestResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type DeleteProductRequest struct {
	ProductID string `json:"productId"`
}
