package service

import (
	"context" // Request-scoped context
	"errors"  // Error matching
	"strings" // Input normalization
	"time"    // Cache TTL

	"storefront/internal/domain" // Importing domain models
	"storefront/internal/utils"  // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// Catalog cache keys and lifetime
const (
	productsCacheKey      = "products:all"
	productCacheKeyPrefix = "product:"
	catalogCacheTTL       = 60 * time.Second
)

// CatalogService is the product CRUD, with a Redis read-through cache for reads
type CatalogService struct {
	db  *gorm.DB
	rdb *redis.Client // Optional; nil disables caching
}

// NewCatalogService creates a CatalogService
func NewCatalogService(db *gorm.DB, rdb *redis.Client) *CatalogService {
	return &CatalogService{db: db, rdb: rdb}
}

// ProductInput carries the fields of a create or a partial update
type ProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
}

func (in ProductInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Price == nil && in.ImageURL == nil
}

// List returns every product, oldest first. The bool reports a cache hit.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, bool, error) {
	var products []domain.Product
	if s.cacheGet(ctx, productsCacheKey, &products) {
		return products, true, nil
	}
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&products).Error; err != nil {
		return nil, false, domain.Internal("Failed to fetch products", err)
	}
	s.cacheSet(ctx, productsCacheKey, products)
	return products, false, nil
}

// Get returns one product. The bool reports a cache hit.
func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, bool, error) {
	var product domain.Product
	key := productCacheKeyPrefix + id
	if s.cacheGet(ctx, key, &product) {
		return product, true, nil
	}
	product, err := s.load(ctx, s.db, id)
	if err != nil {
		return domain.Product{}, false, err
	}
	s.cacheSet(ctx, key, product)
	return product, false, nil
}

func (s *CatalogService) load(ctx context.Context, tx *gorm.DB, id string) (domain.Product, error) {
	var product domain.Product
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, domain.NotFound("Product not found")
		}
		return product, domain.Internal("Failed to fetch product", err)
	}
	return product, nil
}

// Create adds a product; every field is required and price must be positive
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	invalid := domain.Validation("Invalid product data: name, description, price (positive number), imageUrl are required.")
	if in.Name == nil || in.Description == nil || in.ImageURL == nil || in.Price == nil {
		return domain.Product{}, invalid
	}
	product := domain.Product{
		Name:        strings.TrimSpace(*in.Name),
		Description: strings.TrimSpace(*in.Description),
		Price:       *in.Price,
		ImageURL:    strings.TrimSpace(*in.ImageURL),
	}
	if product.Name == "" || product.Description == "" || product.ImageURL == "" || !domain.ValidPrice(product.Price) {
		return domain.Product{}, invalid
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		err = domain.Internal("Failed to create product", err)
		logFailure(err, logrus.Fields{"name": product.Name}, "Product create failed")
		return domain.Product{}, err
	}
	s.invalidate(ctx, product.ID)
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,             // New product ID
		"name":       product.Name,           // Product name
		"price":      product.Price.String(), // Unit price
	}).Info("Product created")
	return product, nil
}

// Update merges the provided fields into an existing product
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	if in.empty() {
		return domain.Product{}, domain.Validation("No data provided for update")
	}
	updates := map[string]any{}
	if in.Price != nil {
		if !domain.ValidPrice(*in.Price) {
			return domain.Product{}, domain.Validation("Price must be a positive number with at most two decimals, below 10000000000")
		}
		updates["price"] = *in.Price
	}
	for column, value := range map[string]*string{"name": in.Name, "description": in.Description, "image_url": in.ImageURL} {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" {
			return domain.Product{}, domain.Validation("Product " + strings.ReplaceAll(column, "_", " ") + " cannot be empty")
		}
		updates[column] = v
	}
	var product domain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return domain.Internal("Failed to update product", err)
		}
		product, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		logFailure(err, logrus.Fields{"product_id": id}, "Product update failed")
		return domain.Product{}, err
	}
	s.invalidate(ctx, id)
	logrus.WithFields(logrus.Fields{
		"product_id": id,           // Updated product ID
		"changes":    len(updates), // Number of changed columns
	}).Info("Product updated")
	return product, nil
}

// Delete removes a product together with the cart rows that reference it
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return domain.Internal("Failed to delete product", err)
		}
		res := tx.Where("id = ?", id).Delete(&domain.Product{})
		if res.Error != nil {
			return domain.Internal("Failed to delete product", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Product not found")
		}
		return nil
	})
	if err != nil {
		logFailure(err, logrus.Fields{"product_id": id}, "Product delete failed")
		return err
	}
	s.invalidate(ctx, id)
	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

// cacheGet reads a cached value; Redis failures count as misses
func (s *CatalogService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.rdb == nil {
		return false
	}
	found, err := utils.GetCache(ctx, s.rdb, key, dest)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Catalog cache read failed")
		return false
	}
	return found
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.rdb == nil {
		return
	}
	_ = utils.SetCache(ctx, s.rdb, key, value, catalogCacheTTL)
}

// invalidate drops the list and the single-product entries for id
func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	if err := utils.DeleteCache(ctx, s.rdb, productsCacheKey, productCacheKeyPrefix+id); err != nil {
		logrus.WithFields(logrus.Fields{"product_id": id, "error": err.Error()}).Warn("Catalog cache invalidation failed")
	}
}
