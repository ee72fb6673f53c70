package api

import (
	"time" // CORS preflight cache

	"storefront/internal/config"     // Application configuration
	"storefront/internal/middleware" // Session and admin gates
	"storefront/internal/service"    // Domain services

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter wires every route onto a new gin engine
func SetupRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	users := service.NewUserService(db)           // Registration, login and profiles
	catalog := service.NewCatalogService(db, rdb) // Products with Redis read-through
	cart := service.NewCartService(db)            // Per-user carts

	r := gin.Default() // Gin router instance
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/healthz", HealthHandler(db, rdb)) // Liveness and dependency check

	// Auth routes
	r.POST("/register", RegisterHandler(users, rdb))                                                 // Registration endpoint
	r.POST("/login", middleware.LoginRateLimit(rdb), LoginHandler(users, cfg.JWTSecret, cfg.JWTTTL)) // Login endpoint

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret, rdb) // Session gate
	admin := middleware.AdminOnlyMiddleware()                // Role gate

	r.POST("/logout", auth, LogoutHandler(rdb)) // Logout endpoint

	// Catalog routes, reads are public
	products := r.Group("/products")
	products.GET("", ListProductsHandler(catalog))                      // List products
	products.GET("/:id", GetProductHandler(catalog))                    // Get one product
	products.POST("", auth, admin, CreateProductHandler(catalog))       // Create product
	products.PUT("/:id", auth, admin, UpdateProductHandler(catalog))    // Update product
	products.DELETE("/:id", auth, admin, DeleteProductHandler(catalog)) // Delete product

	// Cart routes (protected by JWT)
	cartGroup := r.Group("/cart", auth)
	cartGroup.GET("", GetCartHandler(cart))           // List cart
	cartGroup.POST("", AddToCartHandler(cart))        // Add or accumulate
	cartGroup.PUT("", UpdateCartHandler(cart))        // Set quantity
	cartGroup.DELETE("", RemoveFromCartHandler(cart)) // Remove one or clear

	// Profile routes (protected by JWT)
	userGroup := r.Group("/user", auth)
	userGroup.GET("", GetProfileHandler(users))         // Current profile
	userGroup.PUT("", UpdateProfileHandler(users, rdb)) // Partial self-update

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", auth, admin)
	adminGroup.GET("/users", ListUsersHandler(users, rdb)) // List users endpoint

	return r
}

// corsConfig allows the configured origins, or every origin for "*"
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Cache", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	return cc
}
