package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Skufu/heartcheck/internal/advice"
	"github.com/Skufu/heartcheck/internal/features"
	"github.com/Skufu/heartcheck/internal/model"
	"github.com/Skufu/heartcheck/internal/pipeline"
	"github.com/Skufu/heartcheck/internal/presets"
	"github.com/Skufu/heartcheck/internal/web"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port            string
	Env             string
	LogLevel        slog.Level
	ModelPath       string
	ModelURL        string
	ModelClasses    []string
	ModelTimeout    time.Duration
	AdviceCap       int
	AdviceThreshold float64
	CaMax           int
	DatabaseURL     string
	EnableDB        bool
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)

	ctx := context.Background()
	var (
		db    HealthChecker
		store presets.Store = presets.Static{}
	)
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		db = pool
		store = presets.NewPostgres(pool)
	}

	validator, err := features.NewValidator(features.Schema{CaMax: cfg.CaMax})
	if err != nil {
		slog.Error("invalid input schema", "error", err)
		os.Exit(1)
	}

	predictor, modelErr := loadPredictor(cfg)
	if modelErr != nil {
		slog.Error("model unavailable, prediction disabled", "error", modelErr)
	}

	svc := pipeline.New(predictor, advice.NewAdvisor(cfg.AdviceCap, cfg.AdviceThreshold), validator)
	router, err := setupRouter(db, svc, web.NewHandler(svc, store, modelErr))
	if err != nil {
		slog.Error("router setup failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server listening", "port", cfg.Port, "model_ready", svc.Ready())
	waitForShutdown(server)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		ModelPath:   getEnv("MODEL_PATH", "heart_disease_model.json"),
		ModelURL:    os.Getenv("MODEL_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.ModelTimeout, err = time.ParseDuration(getEnv("MODEL_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("MODEL_TIMEOUT: %w", err)
	}
	if cfg.AdviceCap, err = getEnvInt("ADVICE_CAP", advice.DefaultCap); err != nil {
		return nil, err
	}
	if cfg.AdviceThreshold, err = getEnvFloat("ADVICE_THRESHOLD", advice.BinaryThreshold); err != nil {
		return nil, err
	}
	if cfg.CaMax, err = getEnvInt("CA_MAX", 3); err != nil {
		return nil, err
	}
	if classes := os.Getenv("MODEL_CLASSES"); classes != "" {
		for _, c := range strings.Split(classes, ",") {
			cfg.ModelClasses = append(cfg.ModelClasses, strings.TrimSpace(c))
		}
	}

	if cfg.AdviceCap < 1 {
		return nil, fmt.Errorf("ADVICE_CAP must be positive, got %d", cfg.AdviceCap)
	}
	if cfg.CaMax != 3 && cfg.CaMax != 4 {
		return nil, fmt.Errorf("CA_MAX must be 3 or 4, got %d", cfg.CaMax)
	}
	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func initLogger(cfg *Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Env != "production" {
		opts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
}

// loadPredictor returns the remote model when MODEL_URL is set, otherwise
// the artifact at MODEL_PATH. A failure leaves prediction disabled.
func loadPredictor(cfg *Config) (model.Predictor, error) {
	if cfg.ModelURL != "" {
		return model.NewRemote(cfg.ModelURL, cfg.ModelClasses, cfg.ModelTimeout), nil
	}
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		if errors.Is(err, model.ErrArtifactNotFound) {
			return nil, fmt.Errorf("model file %q not found, place it next to the binary or set MODEL_PATH", cfg.ModelPath)
		}
		return nil, err
	}
	return m, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func setupRouter(db HealthChecker, svc *pipeline.Service, handler *web.Handler) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if err := handler.Register(router); err != nil {
		return nil, fmt.Errorf("register handlers: %w", err)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		modelStatus := "ok"
		if !svc.Ready() {
			modelStatus = "unavailable"
		}

		dbStatus := "disabled"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			dbStatus = "ok"
			if err := db.Ping(ctx); err != nil {
				dbStatus = fmt.Sprintf("unhealthy: %v", err)
			}
		}

		if modelStatus != "ok" || (dbStatus != "ok" && dbStatus != "disabled") {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"model":  modelStatus,
				"db":     dbStatus,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"model":  modelStatus,
			"db":     dbStatus,
		})
	})

	return router, nil
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
