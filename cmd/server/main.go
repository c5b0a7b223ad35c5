package main

import (
	"fmt"

	"github.com/ndemidov/ai-mentor/internal/ai"
	"github.com/ndemidov/ai-mentor/internal/server"
	"github.com/ndemidov/ai-mentor/internal/storage"
	"github.com/ndemidov/ai-mentor/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize lesson-state store
	var lessons storage.LessonStore
	if cfg.Redis.Addr != "" {
		logger.Info("Using redis lesson store", zap.String("addr", cfg.Redis.Addr))
		redisStore, err := storage.NewRedisLessonStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		lessons = redisStore
	} else {
		logger.Info("Using in-memory lesson store")
		lessons = storage.NewMemoryLessonStore()
	}

	// Initialize AI vendor clients. Without an API key the chat and
	// speech endpoints answer 503 instead of calling the vendor.
	var responder ai.Responder
	var speaker ai.Speaker
	if cfg.OpenAI.APIKey != "" {
		responder = ai.NewOpenAIResponder(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
		speaker = ai.NewOpenAISpeaker(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.TTSModel,
			cfg.OpenAI.TTSVoice,
			logger,
		)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, AI endpoints disabled")
	}

	// Start the server
	srv := server.New(store, lessons, responder, speaker, []byte(cfg.Auth.JWTSecret), cfg.Tokens.StartBalance, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting ai-mentor server", zap.String("addr", addr))
	if err := srv.Router().Run(addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
