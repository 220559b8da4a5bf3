package routes

import (
	"net/http"

	"reviewdeck_backend/internal/handlers"
	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/internal/middleware"
	"reviewdeck_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP and WebSocket routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
	}

	// Review links are shared with clients who have no account, so the
	// socket endpoint takes optional auth only.
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.OptionalAuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
