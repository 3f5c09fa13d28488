package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/flowdeskhq/flowdesk-backend/internal/cache"
	"github.com/flowdeskhq/flowdesk-backend/internal/handlers"
	"github.com/flowdeskhq/flowdesk-backend/internal/handlers/ws"
	"github.com/flowdeskhq/flowdesk-backend/internal/httpx"
	"github.com/flowdeskhq/flowdesk-backend/internal/middleware"
	"github.com/flowdeskhq/flowdesk-backend/internal/repository"
	"github.com/flowdeskhq/flowdesk-backend/internal/service"
	"github.com/flowdeskhq/flowdesk-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "FlowDesk Backend",
		// Support avatar uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-FD-CSRF",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Database
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Redis cache (best-effort; the API works without it)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}
	conversationCache := cache.NewConversationCache(redisCache)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	teamRepo := repository.NewTeamMemberRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Change feed hub; services publish entity change events through it.
	hub := ws.NewHub()
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo)
	conversationService := service.NewConversationService(conversationRepo, messageRepo, hub)
	messageService := service.NewMessageService(messageRepo, conversationRepo, hub)
	teamService := service.NewTeamService(teamRepo, hub)
	integrationService := service.NewIntegrationService(integrationRepo, activityRepo, hub)
	activityService := service.NewActivityService(activityRepo)

	// S3/MinIO storage (best-effort; avatar endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}
	avatarService := service.NewAvatarService(teamRepo, s3Store, hub)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	conversationHandler := handlers.NewConversationHandler(conversationService, conversationCache)
	messageHandler := handlers.NewMessageHandler(messageService, conversationCache)
	teamHandler := handlers.NewTeamHandler(teamService)
	integrationHandler := handlers.NewIntegrationHandler(integrationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	mediaHandler := handlers.NewMediaHandler(s3Store)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", authHandler.CSRF)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh) // No CSRF required - protected by HttpOnly refresh token
	auth.Post("/logout", middleware.CSRFRequired(), authHandler.Logout)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Get("/auth/me", authHandler.GetCurrentUser)

	protected.Get("/conversations", conversationHandler.List)
	protected.Post("/conversations", conversationHandler.Create)
	protected.Get("/conversations/:id", conversationHandler.Get)
	protected.Post("/conversations/:id/read", conversationHandler.MarkAsRead)
	protected.Delete("/conversations/:id", conversationHandler.Remove)
	protected.Get("/conversations/:id/messages", messageHandler.List)
	protected.Post("/conversations/:id/messages", messageHandler.Send)
	protected.Post("/conversations/:id/simulate-receive", messageHandler.SimulateReceive)

	protected.Get("/team", teamHandler.List)
	protected.Post("/team", teamHandler.Create)
	protected.Get("/team/me", teamHandler.GetMyProfile)
	protected.Put("/team/me/status", teamHandler.UpdateStatus)
	protected.Post("/team/me/whatsapp", teamHandler.ConnectWhatsApp)
	protected.Post(
		"/team/me/avatar",
		limiter.New(limiter.Config{
			Max:        10,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return "avatar:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		avatarHandler.UploadMyAvatar,
	)
	protected.Delete("/team/me/avatar", avatarHandler.DeleteMyAvatar)
	protected.Get("/media/avatars/*", mediaHandler.GetAvatar)

	protected.Get("/integration/settings", integrationHandler.GetSettings)
	protected.Put("/integration/settings", integrationHandler.SaveSettings)
	protected.Post("/integration/connect", integrationHandler.Connect)
	protected.Post("/integration/disconnect", integrationHandler.Disconnect)

	protected.Get("/activity", activityHandler.List)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "FlowDesk backend is running",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
