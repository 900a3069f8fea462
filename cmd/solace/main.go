package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lunaselene/solace/internal/api"
	"github.com/lunaselene/solace/internal/billing"
	"github.com/lunaselene/solace/internal/cloud"
	"github.com/lunaselene/solace/internal/db"
	"github.com/lunaselene/solace/internal/device"
	"github.com/lunaselene/solace/internal/llm"
	"github.com/lunaselene/solace/internal/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dataDir := getEnv("DATA_DIR", "data")
	dbPath := getEnv("DB_PATH", filepath.Join(dataDir, "solace.db"))
	port := getEnv("PORT", "8080")
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"

	zapLogger := mustBuildLogger(getEnv("LOG_LEVEL", ""))
	defer zapLogger.Sync()

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		zapLogger.Fatal("database init failed", zap.Error(err))
	}
	repositories := db.NewRepositories(database)

	deviceID := device.ResolveID(os.Getenv("DEVICE_ID"), getEnv("DEVICE_ID_FILE", filepath.Join(dataDir, "device_id")))

	mirror := cloud.NewMirror(os.Getenv("MIRROR_BASE_URL"), os.Getenv("MIRROR_API_KEY"), zapLogger)
	billingClient := billing.NewClient(os.Getenv("BILLING_API_URL"), os.Getenv("BILLING_API_KEY"), zapLogger)

	var completer services.Completer
	if apiKey := os.Getenv("GENAI_API_KEY"); apiKey != "" {
		client, err := llm.NewClient(context.Background(), apiKey, os.Getenv("GENAI_MODEL"))
		if err != nil {
			zapLogger.Fatal("genai init failed", zap.Error(err))
		}
		completer = client
	} else {
		zapLogger.Warn("GENAI_API_KEY not set, AI analyses disabled")
	}

	journalService := services.NewJournalService(repositories.Entries, repositories.Weeklies, mirror, location, zapLogger)
	weeklyService := services.NewWeeklyService(repositories.Entries, repositories.Weeklies, mirror, completer, location, zapLogger)
	exportService := services.NewExportService(repositories.Entries, repositories.Weeklies, location)
	trialGate := services.NewTrialGate(repositories.TrialMarks, billingClient, location, zapLogger)

	var analysisService *services.AnalysisService
	if completer != nil {
		analysisService = services.NewAnalysisService(journalService, completer, zapLogger)
	}

	handler := api.NewHandler(api.Config{
		Users:        repositories.Users,
		SecretKey:    secretKey,
		Location:     location,
		CookieSecure: cookieSecure,
		DeviceID:     deviceID,
		Logger:       zapLogger,
		Journal:      journalService,
		Weekly:       weeklyService,
		Analysis:     analysisService,
		Export:       exportService,
		TrialGate:    trialGate,
		Billing:      billingClient,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Solace",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "solace_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}))

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zapLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Solace listening",
		zap.String("addr", "http://0.0.0.0:"+port),
		zap.String("db", dbPath),
		zap.String("tz", location.String()),
		zap.String("device_id", deviceID))
	if err := app.Listen(":" + port); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

func mustBuildLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	if level == "debug" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapLogger, err := config.Build()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	return zapLogger
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
