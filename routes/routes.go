package routes

import (
	"research-portal-api/controllers"
	"research-portal-api/middleware"
	"research-portal-api/models"

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

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Lookups (all authenticated users)
			protected.GET("/departments", controllers.GetDepartments)
			protected.GET("/campuses", controllers.GetCampuses)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/timeline", controllers.GetSubmissionTimeline)

				// Researchers submit their own work; facilitators may submit
				// on behalf of a researcher in their department.
				submissions.POST("",
					middleware.RequireRole(models.RoleResearcher, models.RoleFacilitator, models.RoleAdmin),
					controllers.CreateSubmission)

				// Status transitions are reserved for the routing and review
				// roles; the workflow engine enforces the finer scope rules.
				submissions.POST("/:id/transition",
					middleware.RequireRole(models.RoleFacilitator, models.RolePIOOffice, models.RoleExternalOffice, models.RoleAdmin),
					controllers.TransitionSubmission)
			}

			// Repository of approved work
			protected.GET("/repository", controllers.SearchRepository)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
