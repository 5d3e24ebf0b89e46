// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/container"
	"github.com/FleetPulse/fleetpulse-go/internal/presentation/http/handlers"
	"github.com/FleetPulse/fleetpulse-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// Initialize handlers
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.FilterStore, container.Logger)
	userHandlers := handlers.NewUserHandlers(container.UserAnalyticsService, container.FilterStore, container.Logger)
	accountHandlers := handlers.NewAccountHandlers(container.AccountAnalyticsService, container.FilterStore, container.Logger)
	sessionHandlers := handlers.NewSessionHandlers(container.SessionService, container.FilterStore, container.Logger)
	feedbackHandlers := handlers.NewFeedbackHandlers(container.FeedbackService, container.FilterStore, container.Logger)
	cacheHandlers := handlers.NewCacheHandlers(container.CacheManager, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	filterHandlers := handlers.NewFilterHandlers(container.FilterStore, container.FilterBroadcaster, container.Logger)

	api := r.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.HandleLogin)
		}

		// Analytics endpoints
		analytics := api.Group("/analytics")
		{
			analytics.GET("/sentiment", analyticsHandlers.HandleSentiment)
			analytics.GET("/intents", analyticsHandlers.HandleIntents)
			analytics.GET("/trends", analyticsHandlers.HandleTrends)
			analytics.GET("/ai-usage", analyticsHandlers.HandleAIUsage)

			users := analytics.Group("/users")
			{
				users.GET("/totals", userHandlers.HandleTotals)
				users.GET("/creation-trends", userHandlers.HandleCreationTrends)
				users.GET("/active-trends", userHandlers.HandleActiveTrends)
				users.GET("/retention", userHandlers.HandleRetention)
			}

			analytics.GET("/accounts", accountHandlers.HandleAccountAnalytics)
			analytics.GET("/accounts/summary", accountHandlers.HandleAccountSummary)
		}

		// Sessions and feedback
		api.GET("/sessions", sessionHandlers.HandleSessions)
		api.GET("/feedback/product", feedbackHandlers.HandleProductFeedback)

		// Shared filter state
		api.GET("/filters", filterHandlers.HandleGetFilters)
		api.PUT("/filters", filterHandlers.HandlePutFilters)
		api.GET("/ws/filters", filterHandlers.HandleFilterStream)

		// Cache introspection and admin-guarded invalidation
		cache := api.Group("/cache")
		{
			cache.GET("/status", cacheHandlers.HandleStatus)
			cache.GET("/sessions/status", cacheHandlers.HandleSessionsStatus)

			cache.Use(middleware.AdminAuthMiddleware(container.AuthService))
			{
				cache.POST("/clear", cacheHandlers.HandleClear)
				cache.POST("/sessions/clear", cacheHandlers.HandleSessionsClear)
			}
		}
	}

	return r
}
