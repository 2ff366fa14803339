package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/nouakchotech/agrimarket/internal/api"
	"github.com/nouakchotech/agrimarket/internal/db"
	"github.com/nouakchotech/agrimarket/internal/security"
)

func main() {
	// Developer convenience only; production deployments set real env vars.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	port := getEnv("PORT", "8080")
	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		generated, err := security.GenerateSecret()
		if err != nil {
			log.Fatalf("secret generation failed: %v", err)
		}
		secretKey = generated
		slog.Warn("SECRET_KEY not set, generated an ephemeral signing key; tokens will not survive a restart")
	}

	database, err := db.Open(db.Config{
		Driver:      getEnv("DB_DRIVER", "sqlite"),
		SQLitePath:  getEnv("DB_PATH", filepath.Join("data", "agrimarket.db")),
		PostgresDSN: os.Getenv("DATABASE_URL"),
	})
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	tokens := security.NewTokenProvider(
		secretKey,
		durationEnv("ACCESS_TOKEN_TTL_SECONDS", security.DefaultAccessTokenTTL),
		durationEnv("REFRESH_TOKEN_TTL_SECONDS", security.DefaultRefreshTokenTTL),
	)

	handler := api.New(database, tokens)

	app := fiber.New(fiber.Config{
		AppName:               "AgriMarket",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	slog.Info("agrimarket listening", "port", port, "tz", location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", raw)
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
