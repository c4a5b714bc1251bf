package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Notifications *service.NotificationService
	Feedback      *service.FeedbackService
	Uploader      AssetUploader
}

// RouterConfig holds HTTP-level settings.
type RouterConfig struct {
	FrontendURL string
}

// NewRouter builds the echo instance with middleware and all API routes.
func NewRouter(svc Services, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewAppValidator()

	e.Use(RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return JSON(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	notificationHandler := NewNotificationHandler(svc.Notifications)
	feedbackHandler := NewFeedbackHandler(svc.Feedback)
	uploadHandler := NewUploadHandler(svc.Uploader)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/feedback/anonymous", feedbackHandler.SubmitAnonymous)

	// Protected routes
	protected := api.Group("", JWTAuth(svc.Auth))

	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/users/me", userHandler.GetProfile)
	protected.PATCH("/users/me", userHandler.UpdateProfile)

	protected.GET("/notifications", notificationHandler.List)
	protected.DELETE("/notifications", notificationHandler.DeleteAll)
	protected.GET("/notifications/stats", notificationHandler.Stats)
	protected.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.GET("/notifications/preferences", notificationHandler.GetPreferences)
	protected.PUT("/notifications/preferences", notificationHandler.SavePreferences)
	protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	protected.PATCH("/notifications/:id/unread", notificationHandler.MarkUnread)
	protected.DELETE("/notifications/:id", notificationHandler.Delete)

	protected.POST("/feedback", feedbackHandler.Submit)
	protected.GET("/feedback", feedbackHandler.ListAll)
	protected.GET("/feedback/mine", feedbackHandler.ListMine)
	protected.GET("/feedback/stats", feedbackHandler.Stats)
	protected.GET("/feedback/:id", feedbackHandler.Get)
	protected.POST("/feedback/:id/vote", feedbackHandler.Vote)
	protected.PATCH("/feedback/:id/status", feedbackHandler.UpdateStatus)
	protected.PATCH("/feedback/:id/notes", feedbackHandler.UpdateNotes)
	protected.POST("/feedback/:id/resolve", feedbackHandler.Resolve)

	protected.POST("/uploads", uploadHandler.Upload)

	return e
}
