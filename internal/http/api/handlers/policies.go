package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/covergrid/insurance-api/internal/models"
	"github.com/covergrid/insurance-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// PolicyHandler serves policy activation and policy query endpoints.
type PolicyHandler struct {
	activation *workflow.ActivationService
	queries    *workflow.Queries
}

// NewPolicyHandler constructs a PolicyHandler.
func NewPolicyHandler(activation *workflow.ActivationService, queries *workflow.Queries) *PolicyHandler {
	return &PolicyHandler{activation: activation, queries: queries}
}

// activatePolicyRequest captures the payload for activating a slot.
type activatePolicyRequest struct {
	PendingPolicyID uint64  `json:"pending_policy_id"` // Slot to redeem.
	UserID          *uint64 `json:"user_id"`           // Optional owner override.
}

// Activate redeems one pending policy slot into a numbered policy.
func (h *PolicyHandler) Activate(c *gin.Context) {
	var body activatePolicyRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.PendingPolicyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pending_policy_id is required"})
		return
	}

	policy, errActivate := h.activation.Activate(c.Request.Context(), body.PendingPolicyID, body.UserID)
	if errActivate != nil {
		switch {
		case errors.Is(errActivate, workflow.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errActivate.Error()})
		case errors.Is(errActivate, workflow.ErrAlreadyActivated),
			errors.Is(errActivate, workflow.ErrOverrideUserNotFound),
			errors.Is(errActivate, workflow.ErrDuplicatePolicy):
			c.JSON(http.StatusBadRequest, gin.H{"error": errActivate.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "activate policy failed"})
		}
		return
	}

	respond(c, http.StatusCreated, formatPolicy(policy), "Policy activated successfully")
}

// List returns activated policies, optionally filtered by plan_id.
func (h *PolicyHandler) List(c *gin.Context) {
	var planID *uint64
	if planIDQ := strings.TrimSpace(c.Query("plan_id")); planIDQ != "" {
		id, errParse := strconv.ParseUint(planIDQ, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_id"})
			return
		}
		planID = &id
	}

	policies, errFind := h.queries.Policies(c.Request.Context(), planID)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list policies failed"})
		return
	}

	out := make([]gin.H, 0, len(policies))
	for i := range policies {
		out = append(out, formatPolicy(&policies[i]))
	}
	respond(c, http.StatusOK, out, "Policies retrieved successfully")
}

// Get returns one policy by ID.
func (h *PolicyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	policy, errFind := h.queries.PolicyByID(c.Request.Context(), id)
	if errFind != nil {
		if errors.Is(errFind, workflow.ErrPolicyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "policy not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query policy failed"})
		return
	}

	respond(c, http.StatusOK, formatPolicy(policy), "Policy retrieved successfully")
}

// formatPolicy converts a policy model to a response payload.
func formatPolicy(policy *models.Policy) gin.H {
	return gin.H{
		"id":                policy.ID,
		"policy_number":     policy.PolicyNumber,
		"pending_policy_id": policy.PendingPolicyID,
		"user_id":           policy.UserID,
		"plan_id":           policy.PlanID,
		"product_id":        policy.ProductID,
		"user": gin.H{
			"id":   policy.User.ID,
			"name": policy.User.Name,
		},
		"product": gin.H{
			"id":    policy.Product.ID,
			"name":  policy.Product.Name,
			"price": policy.Product.Price,
			"category": gin.H{
				"id":   policy.Product.Category.ID,
				"name": policy.Product.Category.Name,
			},
		},
		"created_at": policy.CreatedAt,
		"updated_at": policy.UpdatedAt,
	}
}
