package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // Opaque identifiers
	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// DefaultImageURL is shown for products without an image
const DefaultImageURL = "/default-product.png"

// MaxPrice is the exclusive upper bound of a price; the column is decimal(12,2)
var MaxPrice = decimal.New(1, 10)

// ValidPrice reports whether price is positive, has at most two decimals and fits the column
func ValidPrice(price decimal.Decimal) bool {
	return price.IsPositive() && price.Equal(price.Round(2)) && price.LessThan(MaxPrice)
}

func init() {
	decimal.MarshalJSONWithoutQuotes = true // Prices travel as JSON numbers
}

// Product Model
type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`             // Primary key (uuid)
	Name        string          `gorm:"size:191;not null" json:"name"`            // Product name
	Description string          `gorm:"type:text" json:"description"`             // Long description
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Unit price, always > 0
	ImageURL    string          `gorm:"size:512" json:"imageUrl"`                 // Image reference
	CreatedAt   time.Time       `json:"createdAt"`                                // Creation time
	UpdatedAt   time.Time       `json:"updatedAt"`                                // Last update time
}

// BeforeCreate assigns an id
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Image returns the image reference or the placeholder
func (p Product) Image() string {
	if p.ImageURL == "" {
		return DefaultImageURL
	}
	return p.ImageURL
}
