package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/routes"
	"github.com/yukikurage/taskboard/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		JSON:    cfg.IsProduction(),
		Service: "taskboard",
	})
	log := logging.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Setup session store with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // username (empty for default user)
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 14, // 2 weeks
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer redisClient.Close()

	deps := routes.Deps{
		DB:           db,
		SessionStore: store,
		Redis:        redisClient,
	}

	// Task drafting is only offered with an API key
	if cfg.OpenAIAPIKey != "" {
		deps.Drafter = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Info("OPENAI_API_KEY not set, task drafting disabled")
	}

	r := routes.NewRouter(deps)

	// Start server
	log.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
