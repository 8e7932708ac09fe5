package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36"              json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"   json:"email"`
	Name         string    `gorm:"not null"                        json:"name"`
	PasswordHash string    `gorm:"not null"                        json:"-"`
	Address      string    `gorm:"size:255;not null"               json:"address"`
	PostalCode   string    `gorm:"size:7;not null"                 json:"postalCode"`
	CreatedAt    time.Time `                                       json:"createdAt"`
	UpdatedAt    time.Time `                                       json:"updatedAt"`
}

type Product struct {
	ID          string    `gorm:"primaryKey;size:36"          json:"id"`
	Name        string    `gorm:"not null"                    json:"name"`
	Description string    `gorm:"not null"                    json:"description"`
	Price       int64     `gorm:"not null;check:price > 0"    json:"price"`
	Stock       int64     `gorm:"not null;check:stock >= 0"   json:"stock"`
	Category    string    `gorm:"index;not null"              json:"category"`
	ImageURL    *string   `                                   json:"imageUrl,omitempty"`
	CreatedAt   time.Time `gorm:"index"                       json:"createdAt"`
	UpdatedAt   time.Time `                                   json:"updatedAt"`
}

type Order struct {
	ID          string      `gorm:"primaryKey;size:36"                          json:"id"`
	UserID      string      `gorm:"index;size:36;not null"                      json:"userId"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount int64       `gorm:"not null"                                    json:"totalAmount"`
	Status      OrderStatus `gorm:"size:16;not null;default:pending"            json:"status"`
	CreatedAt   time.Time   `gorm:"index"                                       json:"createdAt"`
	UpdatedAt   time.Time   `                                                   json:"updatedAt"`
}

// OrderItem snapshots the product name and unit price at purchase time.
type OrderItem struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"   json:"-"`
	OrderID   string `gorm:"index;size:36;not null"     json:"-"`
	ProductID string `gorm:"size:36;not null"           json:"productId"`
	Quantity  int64  `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     int64  `gorm:"not null"                   json:"price"`
	Name      string `gorm:"not null"                   json:"name"`
}

type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36"                                json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_cart_user_product;size:36;not null" json:"userId"`
	ProductID string    `gorm:"uniqueIndex:idx_cart_user_product;size:36;not null" json:"productId"`
	Quantity  int64     `gorm:"not null;check:quantity > 0"                       json:"quantity"`
	CreatedAt time.Time `                                                         json:"createdAt"`
	UpdatedAt time.Time `                                                         json:"updatedAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderItem{}, &CartItem{}}
}
