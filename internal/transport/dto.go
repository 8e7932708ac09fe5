package transport

import (
	"time"

	"github.com/Skotchmaster/shop_api/internal/models"
)

type RegisterRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateAddressRequest struct {
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

// ProductRequest is used for both create and full update. Price and Stock are
// pointers so that an absent field can be told apart from zero.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int64  `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type UserView struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

func NewUserView(u *models.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Address:    u.Address,
		PostalCode: u.PostalCode,
	}
}

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

type OrderStatusView struct {
	ID        string             `json:"id"`
	Status    models.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type CartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	MaxStock  int64  `json:"maxStock"`
	LineTotal int64  `json:"lineTotal"`
}

type CartView struct {
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// Envelope is the shape of every API response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
