package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/service" // Catalog service

	"github.com/gin-gonic/gin" // Gin web framework
)

// cacheHeader reports whether a catalog read was served from Redis
func cacheHeader(c *gin.Context, cached bool) {
	if cached {
		c.Header("X-Cache", "HIT")
		return
	}
	c.Header("X-Cache", "MISS")
}

// ListProductsHandler returns the whole catalog
func ListProductsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, cached, err := catalog.List(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		cacheHeader(c, cached)
		ok(c, http.StatusOK, "Products fetched successfully", products)
	}
}

// GetProductHandler returns one product by id
func GetProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, cached, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		cacheHeader(c, cached)
		ok(c, http.StatusOK, "Product fetched successfully", product)
	}
}

// CreateProductHandler adds a product to the catalog (admin only)
func CreateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.ProductInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid product data: name, description, price (positive number), imageUrl are required.")
			return
		}
		product, err := catalog.Create(c.Request.Context(), in)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusCreated, "Product added successfully", product)
	}
}

// UpdateProductHandler merges the provided fields into a product (admin only)
func UpdateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.ProductInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		product, err := catalog.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "Product updated successfully", product)
	}
}

// DeleteProductHandler removes a product and its cart rows (admin only)
func DeleteProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "Product deleted successfully", nil)
	}
}
