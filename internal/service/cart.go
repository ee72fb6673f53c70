package service

import (
	"context" // Request-scoped context
	"errors"  // Error matching
	"strings" // Input normalization
	"time"    // Update timestamps

	"storefront/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clauses
)

// CartService keeps one quantity-bearing row per (user, product)
type CartService struct {
	db *gorm.DB
}

// NewCartService creates a CartService
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Add accumulates qty onto the user's row for productID, creating it on first add.
// The insert-or-increment is a single upsert against the (user_id, product_id) unique index,
// so concurrent adds neither duplicate the row nor lose an increment.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (domain.CartItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || qty <= 0 {
		return domain.CartItem{}, domain.Validation("Invalid product ID or quantity")
	}
	var item domain.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Check the product exists
		var product domain.Product
		if err := tx.Select("id").Where("id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("Product not found")
			}
			return domain.Internal("Failed to load product", err)
		}
		row := domain.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
		upsert := clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", qty), // Accumulate, never overwrite
				"updated_at": time.Now(),
			}),
		}
		if err := tx.Omit(clause.Associations).Clauses(upsert).Create(&row).Error; err != nil {
			return domain.Internal("Failed to add product to cart", err)
		}
		// Re-read: on conflict the stored row keeps its original id and summed quantity
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error; err != nil {
			return domain.Internal("Failed to load cart item", err)
		}
		return nil
	})
	if err != nil {
		logFailure(err, logrus.Fields{"user_id": userID, "product_id": productID, "quantity": qty}, "Add to cart failed")
		return domain.CartItem{}, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      userID,        // Cart owner
		"product_id":   productID,     // Product added
		"added":        qty,           // Quantity added in this call
		"quantity":     item.Quantity, // Resulting quantity
		"cart_item_id": item.ID,       // Cart row
	}).Info("Product added to cart")
	return item, nil
}

// SetQuantity overwrites the quantity of one of the user's rows; qty == 0 removes it.
// It returns nil when the row was removed.
func (s *CartService) SetQuantity(ctx context.Context, cartItemID, userID string, qty int) (*domain.CartItem, error) {
	cartItemID = strings.TrimSpace(cartItemID)
	if cartItemID == "" || qty < 0 {
		return nil, domain.Validation("Invalid cart item ID or quantity")
	}
	if qty == 0 {
		if err := s.Remove(ctx, cartItemID, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	var item domain.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compound match so a user can never touch another user's row
		res := tx.Model(&domain.CartItem{}).
			Where("id = ? AND user_id = ?", cartItemID, userID).
			Updates(map[string]any{"quantity": qty, "updated_at": time.Now()})
		if res.Error != nil {
			return domain.Internal("Failed to update cart item", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Cart item not found or not owned by user")
		}
		if err := tx.Where("id = ? AND user_id = ?", cartItemID, userID).First(&item).Error; err != nil {
			return domain.Internal("Failed to load cart item", err)
		}
		return nil
	})
	if err != nil {
		logFailure(err, logrus.Fields{"user_id": userID, "cart_item_id": cartItemID, "quantity": qty}, "Cart quantity update failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      userID,     // Cart owner
		"cart_item_id": cartItemID, // Cart row
		"quantity":     qty,        // New quantity
	}).Info("Cart item quantity updated")
	return &item, nil
}

// Remove deletes one of the user's rows
func (s *CartService) Remove(ctx context.Context, cartItemID, userID string) error {
	cartItemID = strings.TrimSpace(cartItemID)
	if cartItemID == "" {
		return domain.Validation("Invalid cart item ID")
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", cartItemID, userID).Delete(&domain.CartItem{})
	if res.Error != nil {
		err := domain.Internal("Failed to remove cart item", res.Error)
		logFailure(err, logrus.Fields{"user_id": userID, "cart_item_id": cartItemID}, "Cart item removal failed")
		return err
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Cart item not found or not owned by user")
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      userID,     // Cart owner
		"cart_item_id": cartItemID, // Removed row
	}).Info("Cart item removed")
	return nil
}

// Clear deletes every row the user owns; an empty cart is not an error
func (s *CartService) Clear(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{})
	if res.Error != nil {
		err := domain.Internal("Failed to clear cart", res.Error)
		logFailure(err, logrus.Fields{"user_id": userID}, "Cart clear failed")
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,           // Cart owner
		"removed": res.RowsAffected, // Rows deleted
	}).Info("Cart cleared")
	return res.RowsAffected, nil
}

// List returns the user's cart joined with product details, oldest row first
func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var items []domain.CartItem
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&items).Error; err != nil {
		return nil, domain.Internal("Failed to load cart", err)
	}
	lines := make([]domain.CartLine, len(items))
	for i, item := range items {
		lines[i] = item.Line()
	}
	return lines, nil
}

// logFailure logs unexpected failures; client errors are not logged
func logFailure(err error, fields logrus.Fields, msg string) {
	if !errors.Is(err, domain.ErrInternal) {
		return
	}
	fields["error"] = err.Error() // Error message
	logrus.WithFields(fields).Error(msg)
}
