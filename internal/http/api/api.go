package api

import (
	"net/http"

	"github.com/covergrid/insurance-api/internal/config"
	"github.com/covergrid/insurance-api/internal/http/api/handlers"
	"github.com/covergrid/insurance-api/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires all v1 endpoints and the health check onto the
// engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.ServerConfig) {
	if r == nil || db == nil {
		return
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, errDB := db.DB()
		if errDB != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	purchase := workflow.NewPurchaseService(db, workflow.WithSinglePlanRule(cfg.EnforceSinglePlan))
	activation := workflow.NewActivationService(db)
	queries := workflow.NewQueries(db)

	v1 := r.Group("/v1")

	planHandler := handlers.NewPlanHandler(purchase, queries)
	v1.POST("/plans", planHandler.Create)
	v1.GET("/plans/:id", planHandler.Get)
	v1.GET("/plans/user/:userId", planHandler.ListByUser)

	pendingHandler := handlers.NewPendingPolicyHandler(queries)
	v1.GET("/plans/:id/pending-policies", pendingHandler.ListByPlan)
	v1.GET("/plans/:id/pending-policies/unused", pendingHandler.ListUnusedByPlan)

	policyHandler := handlers.NewPolicyHandler(activation, queries)
	v1.POST("/policies/activate", policyHandler.Activate)
	v1.GET("/policies", policyHandler.List)
	v1.GET("/policies/:id", policyHandler.Get)

	productHandler := handlers.NewProductHandler(queries)
	v1.GET("/products", productHandler.List)
	v1.GET("/products/categories", productHandler.ListCategories)
	v1.GET("/products/:id", productHandler.Get)
}
