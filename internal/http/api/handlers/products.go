package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/covergrid/insurance-api/internal/models"
	"github.com/covergrid/insurance-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// ProductHandler serves the read-only catalog endpoints.
type ProductHandler struct {
	queries *workflow.Queries
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(queries *workflow.Queries) *ProductHandler {
	return &ProductHandler{queries: queries}
}

// List returns all products with their categories, optionally narrowed by
// a case-insensitive name search.
func (h *ProductHandler) List(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	products, errFind := h.queries.Products(c.Request.Context(), search)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list products failed"})
		return
	}

	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, formatProduct(&products[i]))
	}
	respond(c, http.StatusOK, out, "Products retrieved successfully")
}

// ListCategories returns all product categories.
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, errFind := h.queries.Categories(c.Request.Context())
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list categories failed"})
		return
	}

	out := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		out = append(out, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"created_at":  category.CreatedAt,
			"updated_at":  category.UpdatedAt,
		})
	}
	respond(c, http.StatusOK, out, "Product categories retrieved successfully")
}

// Get returns one product by ID.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	product, errFind := h.queries.ProductByID(c.Request.Context(), id)
	if errFind != nil {
		if errors.Is(errFind, workflow.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query product failed"})
		return
	}

	respond(c, http.StatusOK, formatProduct(product), "Product retrieved successfully")
}

// formatProduct converts a product model to a response payload.
func formatProduct(product *models.Product) gin.H {
	var benefits []string
	if len(product.Benefits) > 0 {
		_ = json.Unmarshal(product.Benefits, &benefits)
	}
	return gin.H{
		"id":       product.ID,
		"name":     product.Name,
		"price":    product.Price,
		"benefits": benefits,
		"category": gin.H{
			"id":          product.Category.ID,
			"name":        product.Category.Name,
			"description": product.Category.Description,
		},
		"created_at": product.CreatedAt,
		"updated_at": product.UpdatedAt,
	}
}
