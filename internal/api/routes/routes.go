package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/api/handlers"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/api/middleware"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/config"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/events"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/metrics"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.Site{},
		&models.Certification{},
		&models.Audit{},
		&models.Finding{},
		&models.TechnicalReview{},
		&models.AuditStatusLog{},
		&models.User{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	notificationService := services.NewNotificationService(db)

	// Committed transitions fan out to the log and the notification feed.
	fanout := events.NewFanout()
	fanout.Subscribe((&events.LogPublisher{}).Publish)
	fanout.Subscribe(notificationService.HandleTransition)

	auditService := services.NewAuditService(db, services.NewUserRoleProvider(db), fanout)
	authService := services.NewAuthService(db, cfg)

	authHandler := handlers.NewAuthHandler(authService, cfg.Environment == "production")
	auditHandler := handlers.NewAuditHandler(auditService)
	calcHandler := handlers.NewCalculationHandler()
	orgHandler := handlers.NewOrganizationHandler(db)
	userHandler := handlers.NewUserHandler(db)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// Audits and their workflow
		protected.POST("/audits", auditHandler.Create)
		protected.GET("/audits", auditHandler.List)
		protected.GET("/audits/:id", auditHandler.Get)
		protected.POST("/audits/:id/transition", auditHandler.Transition)
		protected.GET("/audits/:id/transitions", auditHandler.AvailableTransitions)
		protected.GET("/audits/:id/status-log", auditHandler.StatusLog)
		protected.POST("/audits/:id/findings", auditHandler.AddFinding)
		protected.POST("/audits/:id/technical-review", auditHandler.SetTechnicalReview)
		protected.PUT("/findings/:id/verification", auditHandler.SetVerificationStatus)

		// IAF MD5 / MD1 calculators
		protected.POST("/calculations/duration", calcHandler.ValidateDuration)
		protected.POST("/calculations/sampling", calcHandler.CalculateSampling)
		protected.POST("/calculations/site-selection", calcHandler.ValidateSiteSelection)

		// Client organizations
		protected.POST("/organizations", orgHandler.Create)
		protected.GET("/organizations", orgHandler.List)
		protected.GET("/organizations/:id", orgHandler.Get)
		protected.POST("/organizations/:id/sites", orgHandler.AddSite)
		protected.POST("/organizations/:id/certifications", orgHandler.AddCertification)

		// Notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Administration
		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleCBAdmin))
		{
			admin.POST("/users", userHandler.Create)
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id/enabled", userHandler.SetEnabled)

			admin.POST("/notification-providers", notificationHandler.CreateProvider)
			admin.GET("/notification-providers", notificationHandler.ListProviders)
			admin.DELETE("/notification-providers/:id", notificationHandler.DeleteProvider)
		}
	}

	return nil
}
