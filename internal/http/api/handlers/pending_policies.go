package handlers

import (
	"net/http"

	"github.com/covergrid/insurance-api/internal/models"
	"github.com/covergrid/insurance-api/internal/workflow"

	"github.com/gin-gonic/gin"
)

// PendingPolicyHandler serves pending policy slot listings.
type PendingPolicyHandler struct {
	queries *workflow.Queries
}

// NewPendingPolicyHandler constructs a PendingPolicyHandler.
func NewPendingPolicyHandler(queries *workflow.Queries) *PendingPolicyHandler {
	return &PendingPolicyHandler{queries: queries}
}

// ListByPlan returns all slots of a plan, including retired ones.
func (h *PendingPolicyHandler) ListByPlan(c *gin.Context) {
	h.list(c, false, "Pending policies retrieved successfully")
}

// ListUnusedByPlan returns only the slots that can still be activated.
func (h *PendingPolicyHandler) ListUnusedByPlan(c *gin.Context) {
	h.list(c, true, "Unused pending policies retrieved successfully")
}

func (h *PendingPolicyHandler) list(c *gin.Context, unusedOnly bool, message string) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	slots, errFind := h.queries.PendingPoliciesByPlan(c.Request.Context(), planID, unusedOnly)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list pending policies failed"})
		return
	}

	out := make([]gin.H, 0, len(slots))
	for i := range slots {
		out = append(out, formatPendingPolicy(&slots[i]))
	}
	respond(c, http.StatusOK, out, message)
}

// formatPendingPolicy converts a slot model to a response payload.
func formatPendingPolicy(slot *models.PendingPolicy) gin.H {
	return gin.H{
		"id":      slot.ID,
		"plan_id": slot.PlanID,
		"status":  slot.Status,
		"plan": gin.H{
			"id":           slot.Plan.ID,
			"user_id":      slot.Plan.UserID,
			"product_id":   slot.Plan.ProductID,
			"quantity":     slot.Plan.Quantity,
			"total_amount": slot.Plan.TotalAmount,
			"user": gin.H{
				"id":   slot.Plan.User.ID,
				"name": slot.Plan.User.Name,
			},
			"product": gin.H{
				"id":    slot.Plan.Product.ID,
				"name":  slot.Plan.Product.Name,
				"price": slot.Plan.Product.Price,
			},
		},
		"created_at": slot.CreatedAt,
		"updated_at": slot.UpdatedAt,
	}
}
