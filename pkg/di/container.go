package di

import (
	"time"

	"roleplay-online/backend/ai"
	"roleplay-online/backend/internal/service"
	"roleplay-online/backend/internal/store"
	"roleplay-online/backend/internal/ws"
	"roleplay-online/backend/pkg/cache"
	"roleplay-online/backend/pkg/health"
	"roleplay-online/backend/pkg/jwt"
	"roleplay-online/backend/pkg/logger"
	"roleplay-online/backend/pkg/observability"
)

// Container holds all the dependencies for the application
type Container struct {
	Store      *store.Store
	Logger     *logger.Logger
	JWTService *jwt.Service
	Cache      cache.Backend
	Metrics    *observability.Metrics
	AIClient   ai.Client
	Hub        *ws.Hub
	Health     *health.Checker

	UserService      *service.UserService
	CharacterService *service.CharacterService
	ChatService      *service.ChatService
	SessionService   *service.SessionService
	VoiceService     *service.VoiceService
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig      logger.Config
	JWTSecret         string
	JWTExpiry         time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig:      logger.DefaultConfig(),
		JWTSecret:         "",
		JWTExpiry:         0, // Use default
		HealthCheckPeriod: 30 * time.Second,
	}
}

// New creates a new dependency injection container
func New(st *store.Store, config *Config) (*Container, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Initialize the logger
	log := logger.New(config.LoggerConfig)

	// Initialize JWT service. The package helpers back the auth middleware
	// and the websocket handshake, so they must share the service's key.
	if config.JWTSecret != "" {
		jwt.SetSecret(config.JWTSecret)
	}
	jwtService := jwt.NewService(config.JWTSecret, config.JWTExpiry)

	// Metrics instruments on the global meter provider
	metrics := observability.NewMetrics()

	// Gemini client for text and speech generation
	aiClient := ai.NewGeminiClient(log, metrics)

	// WebSocket hub doubles as the session event notifier
	hub := ws.NewHub(log)

	// Catalog cache backend (memory or redis per config)
	cacheBackend := cache.ForConfig()

	// Initialize core services
	sessionService := service.NewSessionService(hub, log)
	userService := service.NewUserService(st, jwtService, log)
	characterService := service.NewCharacterService(st, cacheBackend, log)
	chatService := service.NewChatService(st, aiClient, hub, metrics, log)
	voiceService := service.NewVoiceService(characterService, sessionService, aiClient, log)

	// Health checks: the store is critical, the LLM only degrades
	checker := health.NewChecker(log, config.HealthCheckPeriod)
	checker.RegisterStoreCheck(st.Ready)
	checker.RegisterLLMCheck(aiClient.Ready)

	return &Container{
		Store:            st,
		Logger:           log,
		JWTService:       jwtService,
		Cache:            cacheBackend,
		Metrics:          metrics,
		AIClient:         aiClient,
		Hub:              hub,
		Health:           checker,
		UserService:      userService,
		CharacterService: characterService,
		ChatService:      chatService,
		SessionService:   sessionService,
		VoiceService:     voiceService,
	}, nil
}
