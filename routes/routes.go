// File: /routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"socialpulse-api/config"
	"socialpulse-api/controllers"
	"socialpulse-api/middleware"
	"socialpulse-api/realtime"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

const apiVersion = "1.0.0"

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Config        *config.Config
	Tokens        *services.TokenService
	Auth          *services.AuthService
	Posts         *services.PostService
	Renderer      *services.ContentRenderer
	Accounts      *services.AccountService
	LinkedIn      *services.LinkedInOAuthService
	Analytics     *services.AnalyticsService
	AI            *services.AIService
	Notifications *services.NotificationService
	Hub           *realtime.Hub
}

// NewRouter returns an engine with the global middleware chain and every
// route mounted.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(SetupCORS(deps.Config.FrontendURL))
	r.Use(middleware.ErrorHandler())

	SetupRoutes(r, deps)
	return r
}

// SetupCORS allows the frontend origin with credentials. Without a frontend
// URL every origin is allowed.
func SetupCORS(frontendURL string) gin.HandlerFunc {
	if frontendURL == "" {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// Controllers
	authController := controllers.NewAuthController(deps.Auth)
	userController := controllers.NewUserController(deps.Auth)
	postController := controllers.NewPostController(deps.Posts, deps.Renderer, deps.Analytics)
	accountController := controllers.NewAccountController(deps.Accounts)
	socialAuthController := controllers.NewSocialAuthController(deps.LinkedIn, cfg.FrontendURL)
	analyticsController := controllers.NewAnalyticsController(deps.Analytics)
	aiController := controllers.NewAIController(deps.AI)
	notificationController := controllers.NewNotificationController(deps.Notifications)
	eventsHandler := realtime.NewHandler(deps.Hub, cfg.FrontendURL)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "SocialPulse API",
			"version": apiVersion,
			"status":  "running",
		})
	})
	r.GET("/api", func(c *gin.Context) {
		endpoints := gin.H{
			"auth":          "/api/auth",
			"users":         "/api/users",
			"posts":         "/api/posts",
			"ai":            "/api/ai",
			"accounts":      "/api/accounts",
			"analytics":     "/api/analytics",
			"notifications": "/api/notifications",
			"events":        "/api/events",
		}
		c.JSON(http.StatusOK, gin.H{"message": "SocialPulse API", "endpoints": endpoints})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	api.Use(middleware.ValidateJSON())

	requireAuth := middleware.Auth(deps.Tokens, false)
	// Browser navigations and websocket upgrades cannot set headers.
	requireAuthOrQuery := middleware.Auth(deps.Tokens, true)

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.GET("/me", requireAuth, authController.Me)
		auth.GET("/linkedin", requireAuthOrQuery, socialAuthController.LinkedInLogin)
		auth.GET("/linkedin/callback", socialAuthController.LinkedInCallback)
	}

	// User routes
	users := api.Group("/users", requireAuth)
	{
		users.GET("/profile", userController.GetProfile)
		users.PUT("/profile", userController.UpdateProfile)
	}

	// Post routes
	posts := api.Group("/posts", requireAuth)
	{
		posts.GET("", postController.GetPosts)
		posts.POST("", postController.CreatePost)
		posts.GET("/stats/summary", postController.GetStatsSummary)
		posts.GET("/:id", postController.GetPost)
		posts.GET("/:id/preview", postController.PreviewPost)
		posts.PUT("/:id", postController.UpdatePost)
		posts.PUT("/:id/engagement", postController.UpdateEngagement)
		posts.POST("/:id/publish-now", postController.PublishNow)
		posts.DELETE("/:id", postController.DeletePost)
	}

	// Account routes
	accounts := api.Group("/accounts", requireAuth)
	{
		accounts.GET("", accountController.GetAccounts)
		accounts.POST("/connect", accountController.Connect)
		accounts.GET("/:platform", accountController.GetAccount)
		accounts.DELETE("/:platform", accountController.Disconnect)
	}

	// Notification routes
	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", notificationController.GetNotifications)
		notifications.GET("/stats", notificationController.GetNotificationStats)
		notifications.PUT("/read-all", notificationController.MarkAllAsRead)
		notifications.PUT("/:id/read", notificationController.MarkAsRead)
		notifications.DELETE("/:id", notificationController.DeleteNotification)
	}

	api.GET("/analytics", requireAuth, analyticsController.GetAnalytics)
	api.POST("/ai/generate", requireAuth, aiController.Generate)
	api.GET("/events", requireAuthOrQuery, eventsHandler.Events)

	r.NoRoute(func(c *gin.Context) {
		utils.SendError(c, http.StatusNotFound, "Route not found")
	})
}
