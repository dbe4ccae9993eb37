package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/SlySlayer32/Youtubeseoai/internal/abtest"
	"github.com/SlySlayer32/Youtubeseoai/internal/cache"
	"github.com/SlySlayer32/Youtubeseoai/internal/completion"
	"github.com/SlySlayer32/Youtubeseoai/internal/config"
	"github.com/SlySlayer32/Youtubeseoai/internal/extract"
	"github.com/SlySlayer32/Youtubeseoai/internal/handlers"
	"github.com/SlySlayer32/Youtubeseoai/internal/knowledge"
	"github.com/SlySlayer32/Youtubeseoai/internal/logging"
	"github.com/SlySlayer32/Youtubeseoai/internal/metrics"
	"github.com/SlySlayer32/Youtubeseoai/internal/middleware"
	"github.com/SlySlayer32/Youtubeseoai/internal/retrieval"
	"github.com/SlySlayer32/Youtubeseoai/internal/search"
	"github.com/SlySlayer32/Youtubeseoai/internal/settings"
	"github.com/SlySlayer32/Youtubeseoai/internal/transcript"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Youtubeseoai Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Response cache: Redis when configured, in-process otherwise
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, falling back to in-process cache: %v", err)
			store = cache.NewMemoryStore()
		} else {
			log.Println("✅ Connected to Redis")
			defer redisStore.Close()
			store = redisStore
		}
	} else {
		log.Println("📋 REDIS_URL not set, using in-process response cache")
		store = cache.NewMemoryStore()
	}
	responseCache := cache.NewResponseCache(store)

	// Upstream settings with file watching and hourly model refresh
	settingsSvc := settings.NewService(cfg.SettingsFile)
	settingsSvc.Load()
	if err := settingsSvc.RefreshModels(ctx); err != nil {
		log.Printf("⚠️  Initial model preload failed: %v", err)
	}
	if err := settingsSvc.Watch(ctx); err != nil {
		log.Printf("⚠️  Settings file watcher unavailable: %v", err)
	}
	scheduler, err := settingsSvc.StartModelRefresh(ctx)
	if err != nil {
		log.Printf("⚠️  Model refresh scheduler unavailable: %v", err)
	}

	// Retrieval pipeline
	orchestrator := retrieval.NewOrchestrator(
		search.NewClient(cfg.SearXNGURL),
		retrieval.NewFetcherWithRate(cfg.DomainRate),
		extract.New(transcript.NewClient()),
	)

	// Completion proxy
	engine := completion.NewEngine(settingsSvc)
	proxy := completion.NewProxy(engine, responseCache)

	// A/B experiment store (SQLite)
	abStore, err := abtest.Open("ab_testing.db")
	if err != nil {
		log.Fatalf("❌ Failed to open A/B testing database: %v", err)
	}
	defer abStore.Close()

	knowledgeStore := knowledge.NewStore()

	m := metrics.Init()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Youtubeseoai v1.0",
		ReadTimeout:  900 * time.Second, // streaming responses from slow local models
		WriteTimeout: 900 * time.Second,
		IdleTimeout:  900 * time.Second,
		BodyLimit:    50 * 1024 * 1024, // chat messages can carry base64 images
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("youtubeseoai")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Chat=%d/min",
		rateLimitConfig.GlobalAPIMax, rateLimitConfig.ChatMax)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(orchestrator, responseCache, proxy, m)
	titleHandler := handlers.NewTitleHandler(proxy)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc)
	abHandler := handlers.NewABTestHandler(abStore)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeStore)
	healthHandler := handlers.NewHealthHandler(settingsSvc)

	// Routes
	chatLimiter := middleware.ChatRateLimiter(rateLimitConfig)
	app.Post("/chat", chatLimiter, chatHandler.Handle)
	app.Post("/continue_generation", chatLimiter, chatHandler.HandleContinue)
	app.Post("/generate-title", titleHandler.Handle)
	app.Get("/fetch-models", settingsHandler.HandleFetchModels)
	app.Post("/save-settings", settingsHandler.HandleSave)

	app.Post("/api/ab/experiments", abHandler.HandleCreate)
	app.Get("/api/ab/experiments/:id/variant", abHandler.HandleVariant)
	app.Get("/api/ab/experiments/:id/results", abHandler.HandleResults)
	app.Post("/api/ab/variants/:id/click", abHandler.HandleClick)
	app.Post("/api/ab/variants/:id/conversion", abHandler.HandleConversion)

	app.Post("/api/knowledge/ingest", knowledgeHandler.HandleIngest)
	app.Post("/api/knowledge/query", knowledgeHandler.HandleQuery)

	app.Get("/health", healthHandler.Handle)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		cancel()
		if scheduler != nil {
			if err := scheduler.Shutdown(); err != nil {
				log.Printf("⚠️ Error stopping scheduler: %v", err)
			}
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
