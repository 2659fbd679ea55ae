package main

import (
	"context"
	"livechat/cmd/internal/domain/sqlite"
	"livechat/cmd/internal/domain/sqlite/repository"
	handler2 "livechat/cmd/internal/http/handler"
	authmw "livechat/cmd/internal/http/middleware"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/service"
	"livechat/cmd/internal/service/jobs"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/uid"
	"livechat/cmd/internal/utils/validators"
	ws "livechat/cmd/internal/websocket"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	defaultPort   = "7070"
	defaultDBPath = "livechat.db"

	// Per-connection send_message throttle.
	sendRatePerSecond = 2.0
	sendBurst         = 10
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars from .env outside production
	if os.Getenv("GO_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Warnf("no .env file loaded: %v", err)
		}
	}

	if err := utils.InitAuth(os.Getenv("JWT_SECRET")); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}
	uid.Init(1)

	// Init SQLite
	db, err := sqlite.Init(envOr("DB_PATH", defaultDBPath))
	if err != nil {
		panic(err)
	}

	// Getting repos
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Getting services
	conns := registry.New()
	hub := ws.NewHub()
	presenceService := service.NewPresenceService(conns, userRepo, hub, validate)
	messageService := service.NewMessageService(conns, messageRepo, validate)
	throttledMessages := service.NewThrottledMessageService(messageService, sendRatePerSecond, sendBurst)
	typingService := service.NewTypingService(conns, validate)
	receiptService := service.NewReceiptService(conns, messageRepo, validate)

	// Any is_online flag that survived the last shutdown is stale
	presenceService.ReconcileStartup()

	wsServer := ws.NewServer(hub, presenceService, throttledMessages, typingService, receiptService)

	// Background sweep of connections with expired tokens
	cleaner := jobs.NewSessionCleaner(hub, time.Minute)
	go cleaner.Start(context.Background())

	// Getting handlers
	messageRoutes := handler2.NewMessageDefault(messageService)
	userRoutes := handler2.NewUserDefault(presenceService)
	authMiddleware := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{UserRepo: userRepo})

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	// Realtime endpoint; authentication happens over the socket itself
	e.GET("/ws", wsServer.HandleWS)

	// REST reads
	api := e.Group("/api", authMiddleware)
	api.GET("/messages/unread", messageRoutes.GetUnreadCount)
	api.GET("/messages/:userId", messageRoutes.GetConversation)
	api.GET("/users/online", userRoutes.GetOnlineUsers)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":" + envOr("PORT", defaultPort)); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

func envOr(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
