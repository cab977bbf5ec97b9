package main

import (
	"os"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/handlers"
	"refik/internal/logger"
	"refik/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	defer logger.Sync()

	if err := database.InitDB(); err != nil {
		logger.Log.Fatal("veritabanı başlatılamadı", zap.Error(err))
	}

	if err := auth.InitOAuth(); err != nil {
		logger.Log.Fatal("OAuth yapılandırılamadı", zap.Error(err))
	}

	if err := services.InitMapsClient(); err != nil {
		logger.Log.Warn("Google Maps devre dışı", zap.Error(err))
	}

	emailService := services.NewEmailService()

	reminderWorker := services.NewReminderWorker(emailService)
	reminderWorker.Start()

	db := database.GetDB()
	announcementService := services.NewAnnouncementService(
		db, services.NewGormEmailDirectory(db), emailService)

	reportService, err := services.NewReportService(db)
	if err != nil {
		logger.Log.Warn("rapor eki depolama devre dışı", zap.Error(err))
		reportService = nil
	} else {
		reportService.StartCleanupWorker()
	}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// The frontend is a separate SPA.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Job-Token")
	router.Use(cors.New(corsConfig))

	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth
	router.GET("/auth/login", handlers.LoginHandler)
	router.GET("/auth/callback", handlers.GoogleCallbackHandler)

	// Public reads
	router.GET("/events", handlers.GetEvents)
	router.GET("/events/:id", handlers.GetEvent)
	router.GET("/cities", handlers.GetCities)
	router.GET("/venues", handlers.GetVenues)
	router.GET("/categories", handlers.GetCategories)

	// Scheduled jobs, also invocable over HTTP
	router.POST("/jobs/send-reminders", handlers.TriggerReminders(reminderWorker.Dispatcher()))
	if reportService != nil {
		router.POST("/jobs/cleanup-reports", handlers.TriggerReportCleanup(reportService))
	}

	// Authenticated routes
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/auth/logout", handlers.LogoutHandler)
		protected.GET("/auth/me", handlers.GetCurrentUser)

		protected.PUT("/events/:id/rsvp", handlers.UpsertRSVP)
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRole("admin"))
	{
		admin.POST("/events", handlers.CreateEvent)
		admin.PUT("/events/:id", handlers.UpdateEvent)
		admin.DELETE("/events/:id", handlers.DeleteEvent)

		admin.POST("/cities", handlers.CreateCity)
		admin.DELETE("/cities/:id", handlers.DeleteCity)
		admin.POST("/venues", handlers.CreateVenue)
		admin.DELETE("/venues/:id", handlers.DeleteVenue)
		admin.POST("/categories", handlers.CreateCategory)
		admin.DELETE("/categories/:id", handlers.DeleteCategory)

		admin.GET("/admins", handlers.ListAdmins)
		admin.POST("/admins", handlers.AddAdmin)
		admin.DELETE("/admins/:id", handlers.RemoveAdmin)

		admin.GET("/users", handlers.ListUsers)
		admin.POST("/users", handlers.CreateUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)

		admin.GET("/announcements", handlers.ListAnnouncements)

		admin.GET("/reports", handlers.ListReports)
		admin.POST("/reports", handlers.CreateReport(reportService))
		admin.PUT("/reports/:id", handlers.UpdateReport(reportService))
		admin.DELETE("/reports/:id", handlers.DeleteReport(reportService))
	}

	// Announcement sending is open to both full and announcement-only admins.
	announce := router.Group("/admin")
	announce.Use(auth.AuthMiddleware(), auth.RequireRole("admin", "announcement_admin"))
	{
		announce.POST("/announcements", handlers.SendAnnouncement(announcementService))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.SLog.Infof("Sunucu %s portunda başlıyor...", port)
	if err := router.Run(":" + port); err != nil {
		logger.Log.Fatal("sunucu durdu", zap.Error(err))
	}
}
