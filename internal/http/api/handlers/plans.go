package handlers

import (
	"errors"
	"net/http"

	"github.com/covergrid/insurance-api/internal/models"
	"github.com/covergrid/insurance-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves plan purchase and plan query endpoints.
type PlanHandler struct {
	purchase *workflow.PurchaseService
	queries  *workflow.Queries
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(purchase *workflow.PurchaseService, queries *workflow.Queries) *PlanHandler {
	return &PlanHandler{purchase: purchase, queries: queries}
}

// createPlanRequest captures the payload for purchasing a plan.
type createPlanRequest struct {
	UserID    uint64 `json:"user_id"`    // Purchasing user.
	ProductID uint64 `json:"product_id"` // Product to purchase.
	Quantity  int    `json:"quantity"`   // Units; defaults to 1.
}

// Create purchases a plan: it debits the wallet and issues the pending
// policy slots in one transaction.
func (h *PlanHandler) Create(c *gin.Context) {
	var body createPlanRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if body.ProductID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	plan, errPurchase := h.purchase.Purchase(c.Request.Context(), body.UserID, body.ProductID, body.Quantity)
	if errPurchase != nil {
		var insufficient *workflow.InsufficientFundsError
		switch {
		case errors.As(errPurchase, &insufficient),
			errors.Is(errPurchase, workflow.ErrUserNotFound),
			errors.Is(errPurchase, workflow.ErrWalletMissing),
			errors.Is(errPurchase, workflow.ErrProductNotFound),
			errors.Is(errPurchase, workflow.ErrInvalidQuantity),
			errors.Is(errPurchase, workflow.ErrSinglePlanViolation):
			c.JSON(http.StatusBadRequest, gin.H{"error": errPurchase.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		}
		return
	}

	respond(c, http.StatusCreated, formatPlan(plan), "Insurance plan created successfully")
}

// Get returns one plan by ID.
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	plan, errFind := h.queries.PlanByID(c.Request.Context(), id)
	if errFind != nil {
		if errors.Is(errFind, workflow.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query plan failed"})
		return
	}

	respond(c, http.StatusOK, formatPlan(plan), "Insurance plan retrieved successfully")
}

// ListByUser returns all plans belonging to a user.
func (h *PlanHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	plans, errFind := h.queries.PlansByUser(c.Request.Context(), userID)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}

	out := make([]gin.H, 0, len(plans))
	for i := range plans {
		out = append(out, formatPlan(&plans[i]))
	}
	respond(c, http.StatusOK, out, "User insurance plans retrieved successfully")
}

// formatPlan converts a plan model to a response payload.
func formatPlan(plan *models.Plan) gin.H {
	user := gin.H{
		"id":   plan.User.ID,
		"name": plan.User.Name,
	}
	if plan.User.Wallet != nil {
		user["wallet_balance"] = plan.User.Wallet.Balance
	}
	return gin.H{
		"id":           plan.ID,
		"user_id":      plan.UserID,
		"product_id":   plan.ProductID,
		"quantity":     plan.Quantity,
		"total_amount": plan.TotalAmount,
		"user":         user,
		"product": gin.H{
			"id":    plan.Product.ID,
			"name":  plan.Product.Name,
			"price": plan.Product.Price,
			"category": gin.H{
				"id":   plan.Product.Category.ID,
				"name": plan.Product.Category.Name,
			},
		},
		"created_at": plan.CreatedAt,
		"updated_at": plan.UpdatedAt,
	}
}
