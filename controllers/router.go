package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/middleware"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer needs. Photos may be nil when
// object storage is not configured.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Logger      *zap.Logger
	Auth        *services.AuthService
	Orders      *services.OrderService
	Assignments *services.AssignmentService
	Jobs        *services.JobService
	Reviews     *services.ReviewService
	Analytics   *services.AnalyticsService
	Staff       *services.StaffService
	Photos      *services.PhotoService
	Outbox      *services.Outbox
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		middleware.Logger(c).Error("panic recovered", zap.String("panic", fmt.Sprint(recovered)), zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
		})
	})
}

// SetupRouter builds the Gin engine with every API route registered.
func SetupRouter(deps *Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger), recovery(), cors.New(corsConfig(cfg)))

	users := NewUserController(deps.Auth)
	orders := NewOrderController(deps.Orders, deps.Assignments, deps.Jobs)
	payments := NewPaymentController(deps.Orders, cfg.PaystackSecretKey)
	barbers := NewBarberController(deps.Jobs, deps.Staff, deps.Reviews)
	reviews := NewReviewController(deps.Reviews)
	staff := NewStaffController(deps.Staff)
	analytics := NewAnalyticsController(deps.Analytics)
	notifications := NewNotificationController(deps.Outbox, deps.Orders)
	uploads := NewUploadController(deps.Photos, deps.Staff)

	authenticated := middleware.EnsureValidToken(cfg)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)
		v1.GET("/database/status", DatabaseStatus(deps.DB))

		auth := v1.Group("/auth")
		{
			auth.POST("/login", users.Login)
			auth.POST("/refresh", users.Refresh)
			auth.POST("/reset-password", users.ResetPassword)
		}

		v1.POST("/orders", middleware.OptionalToken(cfg), orders.CreateOrder)
		v1.POST("/payments/paystack/webhook", payments.PaystackWebhook)

		protected := v1.Group("")
		protected.Use(authenticated)
		{
			protected.GET("/users/me", users.GetCurrentUser)

			protected.GET("/orders", middleware.RequireRoles(models.RoleAdmin, models.RoleRep), orders.ListOrders)
			protected.GET("/orders/:id", orders.GetOrder)
			protected.GET("/orders/:id/history", orders.GetOrderHistory)
			protected.POST("/orders/:id/verify-payment", orders.VerifyPayment)

			protected.GET("/me/orders", middleware.RequireRoles(models.RoleCustomer), orders.GetMyOrders)
			protected.POST("/reviews", middleware.RequireRoles(models.RoleCustomer), reviews.CreateReview)
		}

		barber := v1.Group("/barber")
		barber.Use(authenticated, middleware.RequireRoles(models.RoleBarber))
		{
			barber.GET("/me", barbers.GetProfile)
			barber.PATCH("/me/availability", barbers.SetAvailability)
			barber.POST("/me/photo", uploads.UploadMyPhoto)
			barber.GET("/jobs", barbers.ListJobs)
			barber.POST("/jobs/:id/accept", barbers.AcceptJob)
			barber.POST("/jobs/:id/decline", barbers.DeclineJob)
			barber.PATCH("/jobs/:id/status", barbers.UpdateJobStatus)
			barber.GET("/reviews", barbers.ListReviews)
			barber.POST("/reviews/:id/response", barbers.RespondToReview)
		}

		admin := v1.Group("/admin")
		admin.Use(authenticated, middleware.RequireRoles(models.RoleAdmin, models.RoleRep))
		{
			admin.POST("/orders/:id/cancel", orders.CancelOrder)
			admin.PATCH("/orders/:id/payment", adminOnly, orders.UpdatePaymentStatus)
			admin.POST("/orders/:id/assign", orders.AssignBarber)
			admin.GET("/orders/:id/eligible-barbers", orders.EligibleBarbers)
			admin.PATCH("/orders/:id/job-status", adminOnly, orders.OverrideJobStatus)

			admin.GET("/reviews", reviews.ListReviews)
			admin.GET("/reviews/:id", reviews.GetReview)
			admin.PUT("/reviews/:id", reviews.ModerateReview)
			admin.DELETE("/reviews/:id", adminOnly, reviews.DeleteReview)

			admin.POST("/staff", adminOnly, staff.CreateStaff)
			admin.GET("/barbers", staff.ListBarbers)
			admin.GET("/barbers/:id", staff.GetBarber)
			admin.PATCH("/barbers/:id", adminOnly, staff.UpdateBarber)
			admin.POST("/barbers/:id/photo", adminOnly, uploads.UploadBarberPhoto)
			admin.GET("/customers", staff.ListCustomers)

			admin.GET("/analytics/financials", analytics.Financials)
			admin.GET("/analytics/operations", analytics.Operations)
			admin.GET("/analytics/traffic", analytics.Traffic)
			admin.GET("/analytics/services", analytics.Services)

			admin.GET("/notifications", adminOnly, notifications.ListNotifications)
			admin.POST("/notifications/:id/retry", adminOnly, notifications.RetryNotification)
		}

		emails := v1.Group("/emails")
		emails.Use(authenticated, middleware.RequireRoles(models.RoleAdmin, models.RoleRep))
		{
			emails.POST("/order-confirmation", notifications.ResendOrderConfirmation)
			emails.POST("/test", adminOnly, notifications.SendTestEmail)
		}
	}

	return router
}
