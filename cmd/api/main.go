package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"holosuite/internal/catalog"
	"holosuite/internal/http/handlers"
	httpapi "holosuite/internal/http/httpapi"
	"holosuite/internal/infra"
	"holosuite/internal/providers/gemini"
	"holosuite/internal/providers/image"
	"holosuite/internal/providers/video"
	"holosuite/internal/studio"
)

func main() {
	// Optional .env for local runs.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger(os.Getenv("APP_ENV"))
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	images := image.NewGeminiGenerator(client, client, image.Options{
		GenerateModel: cfg.ImageModel,
		EditModel:     cfg.EditModel,
		AspectRatio:   cfg.ImageAspectRatio,
		OutputMIME:    cfg.ImageOutputMIME,
		Logger:        &logger,
	})
	videos := video.NewGeminiGenerator(client, video.Options{
		Model:       cfg.VideoModel,
		Resolution:  cfg.VideoResolution,
		AspectRatio: cfg.VideoAspectRatio,
		Poll: video.PollConfig{
			Interval:    cfg.VideoPollInterval,
			MaxAttempts: cfg.VideoPollMaxAttempts,
			MaxWait:     cfg.VideoPollMaxWait,
		},
		Logger: &logger,
	})

	var store studio.Store = studio.NewMemoryStore(cfg.StudioSessionTTL)
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisStore, err := studio.NewRedisStore(pingCtx, cfg.RedisURL, cfg.StudioSessionTTL)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info().Msg("studio sessions stored in redis")
	}

	ctrl := studio.NewController(store, images, videos, studio.Options{
		MessageInterval: cfg.StudioMessageInterval,
		UploadMaxBytes:  cfg.UploadMaxBytes,
		LockTTL:         cfg.VideoPollMaxWait + 5*time.Minute,
		Logger:          &logger,
	})

	app := handlers.NewApp(cfg, &logger, images, videos, catalog.New(), ctrl)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
