package router

import (
	"github.com/gin-gonic/gin"

	"spenso/internal/handler"
	"spenso/internal/middleware"
	"spenso/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	receiptH *handler.ReceiptHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	receipts := protected.Group("/receipts")
	receipts.POST("", receiptH.Submit)
	receipts.GET("", receiptH.List)
	receipts.GET("/export", receiptH.Export)
	receipts.GET("/:id", receiptH.GetByID)
	receipts.PUT("/:id/status", receiptH.UpdateStatus)

	return r
}
