package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shiva-Rao-IT/faceauth/internal/api"
	"github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/config"
	mongodb "github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/db/mongo"
	redisdb "github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/db/redis"
	"github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/face"
	"github.com/Shiva-Rao-IT/faceauth/pkg/logger"
)

func main() {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.NewIdentityRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("users index creation failed")
	}
	if err := mongodb.NewAttendanceRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("attendance index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	recognizer, err := face.New(cfg.Face.ModelDir)
	if err != nil {
		log.Fatal().Err(err).Str("model_dir", cfg.Face.ModelDir).Msg("face recognizer init failed")
	}
	defer recognizer.Close()

	e := api.NewRouter(db, rdb, recognizer, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
