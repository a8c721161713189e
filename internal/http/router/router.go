package router

import (
	"github.com/gin-gonic/gin"

	"github.com/skillbazar/backend/internal/config"
	"github.com/skillbazar/backend/internal/http/handlers"
	"github.com/skillbazar/backend/internal/http/middleware"
	"github.com/skillbazar/backend/internal/service"
)

// Deps собирает зависимости HTTP слоя.
type Deps struct {
	Config        *config.Config
	Tokens        *service.TokenManager
	Auth          *handlers.AuthHandler
	Gigs          *handlers.GigHandler
	Orders        *handlers.OrderHandler
	Payments      *handlers.PaymentHandler
	Reviews       *handlers.ReviewHandler
	Conversations *handlers.ConversationHandler
	Media         *handlers.MediaHandler
	Health        *handlers.HealthHandler
	WS            *handlers.WSHandler
}

// New собирает маршруты приложения.
func New(d Deps) *gin.Engine {
	if d.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(d.Config.AllowedOrigins))
	r.Use(middleware.ErrorHandler())

	r.GET("/health", d.Health.Check)

	api := r.Group("/api")

	authRequired := middleware.AuthMiddleware(d.Tokens)
	rateLimited := middleware.RateLimitMiddleware(d.Config.RateLimitLimit, d.Config.RateLimitPeriod)

	auth := api.Group("/auth")
	{
		auth.POST("/register", rateLimited, d.Auth.Register)
		auth.POST("/login", rateLimited, d.Auth.Login)
		auth.POST("/refresh", rateLimited, d.Auth.Refresh)
		auth.POST("/logout", authRequired, d.Auth.Logout)
	}

	profile := api.Group("/profile", authRequired)
	{
		profile.GET("", d.Auth.GetProfile)
		profile.PUT("", d.Auth.UpdateProfile)
		profile.PUT("/photo", d.Auth.UpdateProfilePhoto)
	}

	api.GET("/categories", d.Gigs.ListCategories)

	gigs := api.Group("/gigs")
	{
		gigs.GET("", d.Gigs.ListGigs)
		gigs.GET("/my", authRequired, d.Gigs.ListMyGigs)
		gigs.GET("/slug/:slug", d.Gigs.GetGigBySlug)
		gigs.GET("/:id", middleware.UUIDValidator("id"), d.Gigs.GetGig)
		gigs.GET("/:id/reviews", middleware.UUIDValidator("id"), d.Reviews.ListGigReviews)

		gigs.POST("", authRequired, d.Gigs.CreateGig)
		gigs.PUT("/:id", authRequired, middleware.UUIDValidator("id"), d.Gigs.UpdateGig)
		gigs.DELETE("/:id", authRequired, middleware.UUIDValidator("id"), d.Gigs.DeleteGig)
		gigs.POST("/:id/reviews", authRequired, middleware.UUIDValidator("id"), d.Reviews.CreateReview)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", d.Orders.CreateOrder)
		orders.GET("", d.Orders.ListOrders)
		orders.GET("/:id", middleware.UUIDValidator("id"), d.Orders.GetOrder)
		orders.PATCH("/:id/status", middleware.UUIDValidator("id"), d.Orders.UpdateStatus)
		orders.DELETE("/:id", middleware.UUIDValidator("id"), d.Orders.CancelOrder)

		orders.POST("/:id/payments", middleware.UUIDValidator("id"), d.Payments.Initiate)
		orders.GET("/:id/payments", middleware.UUIDValidator("id"), d.Payments.Latest)
		orders.POST("/:id/payment-success", middleware.UUIDValidator("id"), d.Payments.Success)
		orders.POST("/:id/payment-failure", middleware.UUIDValidator("id"), d.Payments.Failure)
	}

	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), d.Reviews.ListFreelancerReviews)

	conversations := api.Group("/conversations", authRequired)
	{
		conversations.POST("", d.Conversations.Start)
		conversations.GET("", d.Conversations.List)
		conversations.GET("/:id", middleware.UUIDValidator("id"), d.Conversations.View)
		conversations.POST("/:id/messages", middleware.UUIDValidator("id"), d.Conversations.PostMessage)
		conversations.DELETE("/:id", middleware.UUIDValidator("id"), d.Conversations.Delete)
	}

	media := api.Group("/media")
	{
		media.POST("/photos", authRequired, d.Media.UploadPhoto)
		media.GET("/:id", middleware.UUIDValidator("id"), d.Media.ServePhoto)
		media.DELETE("/:id", authRequired, middleware.UUIDValidator("id"), d.Media.DeleteMedia)
	}

	api.GET("/ws", d.WS.Connect)

	return r
}
