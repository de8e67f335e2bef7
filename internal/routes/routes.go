package routes

import (
	"os"

	"github.com/equiptrack/backend/internal/controllers"
	"github.com/equiptrack/backend/internal/middleware"
	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/services"
	"github.com/equiptrack/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	photoStore := storage.NewDiskPhotoStore(uploadDir)

	// Initialize services
	activityService := services.NewActivityService(db)
	notificationService := services.NewNotificationService(db)
	equipmentService := services.NewEquipmentService(db, activityService)
	reportService := services.NewReportService(db, photoStore, notificationService, equipmentService, activityService)
	reservationService := services.NewReservationService(db, notificationService, activityService)

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	reportController := controllers.NewReportController(reportService)
	equipmentController := controllers.NewEquipmentController(equipmentService)
	reservationController := controllers.NewReservationController(reservationService)
	notificationController := controllers.NewNotificationController(notificationService)
	activityController := controllers.NewActivityController(activityService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/refresh", authController.RefreshToken)
			protected.POST("/auth/change-password", authController.ChangePassword)

			// Users
			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
				users.PUT("/me", userController.UpdateCurrentUser)
				users.GET("", middleware.RequireRoles(models.RoleAdmin), userController.GetUsers)
				users.PATCH("/:id/role", middleware.RequireRoles(models.RoleAdmin), userController.UpdateUserRole)
			}

			// Defect reports
			reports := protected.Group("/reports")
			{
				reports.POST("", reportController.Submit)
				reports.GET("", reportController.List)
				reports.GET("/:id", reportController.Get)
				reports.POST("/:id/comments", reportController.AddComment)
				reports.DELETE("/:id/comments/:commentId", reportController.DeleteComment)

				staff := reports.Group("")
				staff.Use(middleware.RequireStaff())
				{
					staff.PATCH("/:id/status", reportController.UpdateStatus)
					staff.PATCH("/:id/priority", reportController.UpdatePriority)
					staff.PATCH("/:id/assign", reportController.Assign)
				}

				reports.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), reportController.Delete)
			}

			// Equipment inventory
			equipment := protected.Group("/equipment")
			{
				equipment.GET("", equipmentController.List)
				equipment.GET("/:id", equipmentController.Get)

				staff := equipment.Group("")
				staff.Use(middleware.RequireStaff())
				{
					staff.POST("", equipmentController.Create)
					staff.PUT("/:id", equipmentController.Update)
					staff.PATCH("/:id/status", equipmentController.SetStatus)
				}

				equipment.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), equipmentController.Delete)
			}

			// Reservations
			reservations := protected.Group("/reservations")
			{
				reservations.POST("", reservationController.Create)
				reservations.GET("", reservationController.List)
				reservations.PATCH("/:id/cancel", reservationController.Cancel)

				staff := reservations.Group("")
				staff.Use(middleware.RequireStaff())
				{
					staff.PATCH("/:id/approve", reservationController.Approve)
					staff.PATCH("/:id/reject", reservationController.Reject)
					staff.PATCH("/:id/return", reservationController.Return)
				}
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationController.List)
				notifications.GET("/unread-count", notificationController.UnreadCount)
				notifications.PATCH("/:id/read", notificationController.MarkRead)
				notifications.PATCH("/read-all", notificationController.MarkAllRead)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/activity", activityController.List)
			}
		}
	}
}
