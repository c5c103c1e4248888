package routes

import (
	"research-directory-api/controllers"
	"research-directory-api/middleware"
	"research-directory-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)
			public.POST("/contact", controllers.SubmitContactMessage)

			// Public directory reads
			public.GET("/scholars", controllers.GetScholars)
			public.GET("/scholars/:id", controllers.GetScholar)
			public.GET("/publications", controllers.GetPublications)
			public.GET("/publications/:id", controllers.GetPublication)
			public.GET("/keywords", controllers.GetKeywords)
			public.GET("/suggest", controllers.GetSuggestions)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Directory API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Scholar writes go through the reconciliation engine
			scholars := protected.Group("/scholars")
			{
				scholars.POST("", controllers.CreateScholar)
				scholars.PUT("/:id", controllers.UpdateScholar)
				scholars.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteScholar)
			}

			publications := protected.Group("/publications")
			{
				publications.POST("", controllers.CreatePublication)
				publications.PUT("/:id", controllers.UpdatePublication)
				publications.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeletePublication)
			}

			keywords := protected.Group("/keywords")
			{
				keywords.POST("", controllers.CreateKeyword)
				keywords.PUT("/:id", controllers.UpdateKeyword)
				keywords.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteKeyword)
			}

			contact := protected.Group("/contact-messages")
			contact.Use(middleware.RequireRole(models.RoleAdmin))
			{
				contact.GET("", controllers.GetContactMessages)
				contact.POST("/:id/handled", controllers.MarkContactMessageHandled)
			}
		}
	}
}
