package routes

import (
	"net/http"
	"time"

	"tourbook/config"
	"tourbook/handlers"
	"tourbook/middleware"
	"tourbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the payment gateway webhooks. They are not
// rate limited; gateways retry on any non-2xx response.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhook", hb.RazorpayWebhookHandler)
	if hb.StripeWebhookHandler != nil {
		r.POST("/webhook/stripe", hb.StripeWebhookHandler)
	}
}

// RegisterBookingRoutes registers public booking, agent and cancellation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
		api.GET("/bookings/:bookingId", hb.GetBookingHandler)
		api.GET("/agents/:agentId/stats", hb.GetAgentStatsHandler)
		api.POST("/transactions/:transactionId/cancel", hb.RequestCancellationHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/transactions/cancellations", hb.AdminHandler.GetPendingCancellationsHandler)
		adminGroup.PUT("/transactions/:transactionId/cancel/approve", hb.AdminHandler.ApproveCancellationHandler)
		adminGroup.PUT("/transactions/:transactionId/cancel/reject", hb.AdminHandler.RejectCancellationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		healthy := status.Mongo
		for _, ok := range status.Redis {
			healthy = healthy && ok
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": healthStatusText(healthy), "services": status})
	})
}

func healthStatusText(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
