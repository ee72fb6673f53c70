package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Opaque identifiers
	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// CartItem Model, one row per (user, product)
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`                                        // Primary key (uuid)
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_product" json:"userId"`    // Owner
	ProductID string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_product" json:"productId"` // Referenced product
	Quantity  int       `gorm:"not null" json:"quantity"`                                            // Always > 0
	CreatedAt time.Time `gorm:"index" json:"createdAt"`                                              // Creation time, drives list order
	UpdatedAt time.Time `json:"updatedAt"`                                                           // Last update time

	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`    // Owning user
	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Product snapshot for listing
}

// BeforeCreate assigns an id
func (ci *CartItem) BeforeCreate(*gorm.DB) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	return nil
}

// CartLine is one row of a listed cart
type CartLine struct {
	ProductID   string          `json:"id"`
	CartItemID  string          `json:"cartItemId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Line flattens a cart item with its preloaded product
func (ci CartItem) Line() CartLine {
	return CartLine{
		ProductID:   ci.ProductID,
		CartItemID:  ci.ID,
		Name:        ci.Product.Name,
		Description: ci.Product.Description,
		Price:       ci.Product.Price,
		ImageURL:    ci.Product.Image(),
		Quantity:    ci.Quantity,
		LineTotal:   ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))),
	}
}
