package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/auth"
	"github.com/hadrian75/campusfound/internal/handlers"
	"github.com/hadrian75/campusfound/internal/middleware"
	"github.com/hadrian75/campusfound/internal/services"
	"github.com/hadrian75/campusfound/internal/storage"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	DB            *gorm.DB
	JWT           *auth.JWTService
	Accounts      *services.AccountService
	Tokens        *services.TokenService
	Items         *services.ItemService
	Claims        *services.ClaimService
	Notifications *services.NotificationService
	Uploader      storage.Uploader
	CORSOrigin    string
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil || deps.JWT == nil {
		return nil, errors.New("router requires a database handle and jwt service")
	}

	authHandler, err := handlers.NewAuthHandler(deps.Accounts, deps.Tokens, deps.JWT)
	if err != nil {
		return nil, err
	}
	userHandler, err := handlers.NewUserHandler(deps.Accounts)
	if err != nil {
		return nil, err
	}
	itemHandler, err := handlers.NewItemHandler(deps.Items)
	if err != nil {
		return nil, err
	}
	claimHandler, err := handlers.NewClaimHandler(deps.Claims)
	if err != nil {
		return nil, err
	}
	notificationHandler, err := handlers.NewNotificationHandler(deps.Notifications)
	if err != nil {
		return nil, err
	}
	healthHandler := handlers.NewHealthHandler(deps.DB)

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(deps.CORSOrigin),
	)

	router.GET("/healthz", healthHandler.Live)
	router.GET("/readyz", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/cancel-registration", authHandler.CancelRegistration)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	authed := v1.Group("", middleware.RequireAuth(deps.JWT))
	{
		authed.GET("/me", userHandler.Me)
		authed.PUT("/me/profile", userHandler.UpdateProfile)

		authed.GET("/items", itemHandler.List)
		authed.POST("/items", itemHandler.Report)
		authed.GET("/items/mine", itemHandler.ListMine)
		authed.GET("/items/:id", itemHandler.Get)

		authed.POST("/claims", claimHandler.Submit)
		authed.GET("/claims/mine", claimHandler.ListMine)

		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)

		if deps.Uploader != nil {
			uploadHandler, err := handlers.NewUploadHandler(deps.Uploader)
			if err != nil {
				return nil, err
			}
			authed.POST("/uploads", uploadHandler.Upload)
		}
	}

	admin := v1.Group("/admin", middleware.RequireAuth(deps.JWT), middleware.RequireAdmin())
	{
		admin.GET("/claims/pending", claimHandler.ListPending)
		admin.POST("/claims/:id/adjudicate", claimHandler.Adjudicate)
		admin.PUT("/items/:id/status", itemHandler.UpdateStatus)
		admin.GET("/users", userHandler.List)
		admin.PUT("/users/:id/admin", userHandler.SetAdmin)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	return router, nil
}
