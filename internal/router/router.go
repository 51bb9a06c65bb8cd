package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rollcall-dev/rollcall/internal/config"
	"github.com/rollcall-dev/rollcall/internal/handlers"
	"github.com/rollcall-dev/rollcall/internal/middleware"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		attendance := api.Group("/attendance", middleware.AuthMiddleware())
		{
			attendance.GET("/today", handlers.CheckTodayAttendance)
			attendance.GET("/stats", handlers.GetAttendanceStats)
		}
	}

	authenticated := r.Group("", middleware.AuthMiddleware())
	{
		authenticated.POST("/mark", handlers.MarkAttendance)
		authenticated.GET("/attendance/records", handlers.ListAttendanceRecords)

		authenticated.GET("/preferences", handlers.GetPreferences)
		authenticated.POST("/preferences/update", handlers.UpdatePreferences)

		authenticated.GET("/notifications/check", handlers.CheckNotifications)
		authenticated.POST("/notifications/mark-read", handlers.MarkNotificationRead)
		authenticated.GET("/ws/notifications", handlers.NotificationsWebSocket)

		account := authenticated.Group("/account")
		{
			account.POST("/change-username", handlers.ChangeUsername)
			account.POST("/change-firstname", handlers.ChangeFirstName)
			account.POST("/change-lastname", handlers.ChangeLastName)
		}
	}

	return r
}
