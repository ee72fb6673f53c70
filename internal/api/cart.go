package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Cart service

	"github.com/gin-gonic/gin" // Gin web framework
)

// AddToCartRequest is the body of POST /cart
type AddToCartRequest struct {
	ProductID string `json:"productId"` // Product to add
	Quantity  *int   `json:"quantity"`  // Amount to add, must be > 0
}

// UpdateCartRequest is the body of PUT /cart
type UpdateCartRequest struct {
	CartItemID string `json:"cartItemId"` // Cart row to change
	Quantity   *int   `json:"quantity"`   // New amount, 0 removes the row
}

// RemoveFromCartRequest is the body of DELETE /cart
type RemoveFromCartRequest struct {
	CartItemID string `json:"cartItemId"` // Cart row to remove
	ClearAll   bool   `json:"clearAll"`   // Empty the whole cart
}

// GetCartHandler lists the logged in user's cart
func GetCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		lines, err := cart.List(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "Cart fetched successfully", lines)
	}
}

// AddToCartHandler adds a product or accumulates its quantity
func AddToCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			badRequest(c, "Invalid product ID or quantity")
			return
		}
		item, err := cart.Add(c.Request.Context(), userID, req.ProductID, *req.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "Product added to cart", item)
	}
}

// UpdateCartHandler overwrites a row's quantity, removing it at zero
func UpdateCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		var req UpdateCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			badRequest(c, "Invalid cart item ID or quantity")
			return
		}
		item, err := cart.SetQuantity(c.Request.Context(), req.CartItemID, userID, *req.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		if item == nil {
			ok(c, http.StatusOK, "Cart item removed", nil)
			return
		}
		ok(c, http.StatusOK, "Cart item quantity updated", item)
	}
}

// RemoveFromCartHandler deletes one row or clears the whole cart
func RemoveFromCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, found := sessionUser(c)
		if !found {
			return
		}
		var req RemoveFromCartRequest // Bind JSON request to struct
		_ = c.ShouldBindJSON(&req)    // An empty or malformed body falls through to the 400 below
		switch {
		case req.ClearAll:
			if _, err := cart.Clear(c.Request.Context(), userID); err != nil {
				fail(c, err)
				return
			}
			ok(c, http.StatusOK, "Cart cleared successfully", nil)
		case req.CartItemID != "":
			if err := cart.Remove(c.Request.Context(), req.CartItemID, userID); err != nil {
				fail(c, err)
				return
			}
			ok(c, http.StatusOK, "Cart item removed successfully", nil)
		default:
			badRequest(c, "Invalid request: provide cartItemId or set clearAll to true")
		}
	}
}
