package http

import "github.com/AhmedAmineBejaoui/E-commerce/internal/domain"

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// AddToCartRequest defaults Quantity to 1 when it is omitted.
type AddToCartRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  *int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type PlaceOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Phone           string `json:"phone"`
}

func (r PlaceOrderRequest) ShippingInfo() domain.ShippingInfo {
	return domain.ShippingInfo{
		Address:    r.ShippingAddress,
		City:       r.City,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CartItemResponse struct {
	domain.CartItem
	Product *domain.Product `json:"product,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
