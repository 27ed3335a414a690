package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"cloud.google.com/go/storage"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nyvo/advisor/internal/api"
	"github.com/nyvo/advisor/internal/chat"
	"github.com/nyvo/advisor/internal/config"
	"github.com/nyvo/advisor/internal/connections"
	"github.com/nyvo/advisor/internal/ingestion"
	"github.com/nyvo/advisor/internal/llm"
	"github.com/nyvo/advisor/internal/logger"
	"github.com/nyvo/advisor/internal/recommend"
	"github.com/nyvo/advisor/internal/repository"
	"github.com/nyvo/advisor/internal/retrieval"
)

func slogPanicRecoverMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					reqLogger := logger.With("request_id", c.Get("requestID"))
					reqLogger.ErrorContext(c.Request().Context(), "PANIC recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
					)
					c.Error(err)
				}
			}()
			return next(c)
		}
	}
}

func main() {
	// 1. Load application configuration FIRST.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Sentry.
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		TracesSampleRate: 1.0,
		Debug:            false,
	}); err != nil {
		fmt.Printf("Sentry initialization failed: %v\n", err)
	}
	defer sentry.Flush(2 * time.Second)

	// 3. Initialize the Logger.
	logger.InitLogger(cfg.AppEnv)
	appLogger := logger.L()

	appLogger.Info("Application starting up...", "environment", cfg.AppEnv)

	// 4. Connect to the Database.
	dbClient, err := connections.ConnectDB(cfg.DatabaseURL, appLogger.With("component", "database_connector"))
	if err != nil {
		appLogger.Error("Failed to connect to database at startup", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbClient.Close()

	ctx := context.Background()
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		appLogger.Error("Failed to create GCS client on startup", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("GCS client initialized.")

	// 5. Initialize Core Application Components.
	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Dimensions:     cfg.EmbeddingDimensions,
	}, appLogger)

	policyStore := repository.NewPolicyStore(dbClient.Pool, appLogger)
	contentStore := repository.NewContentStore(dbClient.Pool, appLogger)
	chatStore := repository.NewChatStore(dbClient.Pool, appLogger)
	profileStore := repository.NewProfileStore(dbClient.Pool, appLogger)

	engine := recommend.NewEngine(policyStore, appLogger)
	vectorSearch := retrieval.NewVectorSearch(llmClient, contentStore, appLogger)
	retriever := retrieval.NewRetriever(vectorSearch, appLogger)
	chatService := chat.NewService(engine, retriever, llmClient, chatStore, appLogger)

	categories, err := ingestion.LoadCategoryConfig(cfg.CategoryConfigPath)
	if err != nil {
		appLogger.Error("Failed to load category config", slog.Any("error", err))
		os.Exit(1)
	}
	ingestionService := ingestion.NewService(gcsClient, cfg.GCSBucketName, cfg.GCSContentPrefix, llmClient, contentStore, categories, appLogger)

	apiLogger := appLogger.With("service", "api_handlers")
	chatHandler := api.NewChatHandler(chatService, chatStore, apiLogger)
	recommendHandler := api.NewRecommendHandler(engine, apiLogger)
	profileHandler := api.NewProfileHandler(profileStore, apiLogger)
	contentHandler := api.NewContentHandler(ingestionService, apiLogger)

	appLogger.Info("API handlers initialized.")

	// 6. Initialize Echo.
	e := echo.New()
	e.Validator = api.NewRequestValidator()

	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(0)
	e.Logger.SetHeader("")

	// 7. Register Middleware.
	e.Use(slogPanicRecoverMiddleware(appLogger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSAllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Accept", "Authorization"},
	}))

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := uuid.New().String()
			c.Set("requestID", reqID)

			start := time.Now()

			if hub := sentryecho.GetHubFromContext(c); hub != nil {
				hub.Scope().SetTag("request_id", reqID)
			}

			err := next(c)
			stop := time.Now()

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			appLogger.InfoContext(c.Request().Context(), "HTTP Request",
				"request_id", reqID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency_ms", stop.Sub(start).Milliseconds(),
				"user_agent", c.Request().UserAgent(),
				"ip", c.RealIP(),
			)
			return err
		}
	})

	e.Use(sentryecho.New(sentryecho.Options{
		Repanic: true,
	}))

	// 8. Register Routes.
	e.GET("/health", func(c echo.Context) error {
		reqLogger := appLogger.With("request_id", c.Get("requestID"))

		if err := dbClient.Ping(c.Request().Context()); err != nil {
			reqLogger.ErrorContext(c.Request().Context(), "Database ping failed during health check", slog.Any("error", err))
			sentry.CaptureException(err)
			return c.String(http.StatusInternalServerError, "DB Not Ready")
		}
		return c.String(http.StatusOK, "OK")
	})

	apiGroup := e.Group("/api")
	chatHandler.RegisterRoutes(apiGroup)
	recommendHandler.RegisterRoutes(apiGroup)
	profileHandler.RegisterRoutes(apiGroup)
	contentHandler.RegisterRoutes(apiGroup)

	// 9. Start the HTTP server.
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	address := fmt.Sprintf("0.0.0.0:%s", port)

	appLogger.Info("HTTP Server starting on port", "port", port)

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		appLogger.Error("HTTP Server failed to start", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("HTTP Server stopped gracefully.")
}
