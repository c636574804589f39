package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/handler"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(reconH *handler.ReconHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")
	v1.POST("/reconcile", reconH.Reconcile)
	v1.POST("/reconcile/xlsx", reconH.ReconcileWorkbook)
	v1.POST("/returns/validate", reconH.ValidateReturn)

	return r
}
