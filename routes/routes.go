package routes

import (
	"time"

	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDialogueRoutes registers the endpoint the chat gateway posts client messages to.
func RegisterDialogueRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dialogue")
	{
		api.Use(middleware.GatewayAuthMiddleware(hb.GatewaySecret))
		api.Use(middleware.RateLimitMiddleware(hb.MaxEventsPerMin))
		api.POST("/events", hb.DialogueEventHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDialogueRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
