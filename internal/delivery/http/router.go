package http

import (
	"net/http"

	"github.com/gdugdh24/matrimony-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/matrimony-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler         *handler.AuthHandler
	profileHandler      *handler.ProfileHandler
	directoryHandler    *handler.DirectoryHandler
	interestHandler     *handler.InterestHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	directoryHandler *handler.DirectoryHandler,
	interestHandler *handler.InterestHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:         authHandler,
		profileHandler:      profileHandler,
		directoryHandler:    directoryHandler,
		interestHandler:     interestHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      authMiddleware,
	}
}

func (r *Router) Setup() (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.POST("", r.profileHandler.CreateProfile)
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
				profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
			}

			protected.GET("/users", r.directoryHandler.Browse)

			// Interest routes
			interests := protected.Group("/interests")
			{
				interests.POST("", r.interestHandler.Send)
				interests.GET("/sent", r.interestHandler.ListSent)
				interests.GET("/received", r.interestHandler.ListReceived)
				interests.GET("/matches", r.interestHandler.ListMatches)
				interests.PUT("/:id/accept", r.interestHandler.Accept)
				interests.PUT("/:id/reject", r.interestHandler.Reject)
				interests.DELETE("/:id", r.interestHandler.Cancel)
				interests.GET("/:id/icebreakers", r.interestHandler.Icebreakers)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.GET("/stream", r.notificationHandler.Stream)
				notifications.PUT("/read-all", r.notificationHandler.MarkAllRead)
				notifications.PUT("/:id/read", r.notificationHandler.MarkRead)
				notifications.DELETE("/:id", r.notificationHandler.Delete)
			}

			admin := protected.Group("/admin")
			admin.Use(r.authMiddleware.RequireAdmin())
			{
				admin.POST("/notifications/system", r.notificationHandler.PublishSystem)
			}
		}
	}

	return router, nil
}
