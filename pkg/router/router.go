package router

import (
	"time"

	"roleplay-online/backend/internal/api"
	"roleplay-online/backend/pkg/config"
	"roleplay-online/backend/pkg/di"
	"roleplay-online/backend/pkg/errors"
	"roleplay-online/backend/pkg/logger"
	"roleplay-online/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	// Load configuration
	cfg := config.Get()

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()

	// Use the logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Tag every request with an id before anything can fail
	engine.Use(middleware.RequestIDMiddleware())

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	// Add CORS middleware
	r.Engine.Use(corsMiddleware())

	// Create JWT auth middleware
	jwtAuth := middleware.JWTAuthMiddleware()

	// Initialize handlers
	authHandler := api.NewAuthHandler(r.Container.UserService, r.Container.SessionService)
	characterHandler := api.NewCharacterHandler(r.Container.CharacterService)
	chatHandler := api.NewChatHandler(r.Container.ChatService, r.Container.CharacterService, r.Container.SessionService)
	voiceHandler := api.NewVoiceHandler(r.Container.VoiceService)

	// API version 1 routes
	v1 := r.Engine.Group("/api/v1")

	// Public routes (no auth required)
	publicRoutes := v1.Group("/")
	{
		// Health check endpoint
		publicRoutes.GET("/health", gin.WrapF(r.Container.Health.HTTPHandler()))

		// Auth routes
		authRoutes := publicRoutes.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", jwtAuth, authHandler.Me)
		}
	}

	// Protected routes (require authentication)
	protectedRoutes := v1.Group("/")
	protectedRoutes.Use(jwtAuth)
	{
		// Character gallery
		characterRoutes := protectedRoutes.Group("/characters")
		{
			characterRoutes.GET("", characterHandler.List)
			characterRoutes.POST("", characterHandler.Publish)
			characterRoutes.GET("/:id", characterHandler.Get)
		}

		// Chat logs and turns
		chatRoutes := protectedRoutes.Group("/chat")
		{
			chatRoutes.GET("/recent", chatHandler.Recent)
			chatRoutes.GET("/:characterId/messages", chatHandler.History)
			chatRoutes.POST("/:characterId/messages", chatHandler.Send)
		}

		// Voice synthesis
		protectedRoutes.POST("/voice/synthesize", voiceHandler.Synthesize)
	}

	// WebSocket route (token authenticated via query param)
	if r.Config.Features.EnableWebSockets {
		r.Engine.GET("/ws", r.Container.Hub.ServeWS)
	}

	r.setupHealthRoutes()
}

// Enhance CORS middleware to explicitly allow WebSocket-specific headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		if origin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
