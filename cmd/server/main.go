package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quizforge/backend/internal/api"
	"github.com/quizforge/backend/internal/extract"
	"github.com/quizforge/backend/internal/generator"
	"github.com/quizforge/backend/internal/infrastructure/config"
	"github.com/quizforge/backend/internal/llm"
	"github.com/quizforge/backend/internal/service"
	"github.com/quizforge/backend/internal/session"
	"github.com/quizforge/backend/internal/store"

	_ "github.com/quizforge/backend/docs" // generated swagger docs
)

// sessionSweepInterval is how often idle chat sessions are evicted.
const sessionSweepInterval = 5 * time.Minute

// @title           QuizForge API
// @version         1.0
// @description     AI quiz generator with folder analytics, comprehensive tests and a study chat assistant.

// @host      localhost:8000
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sessions := session.NewStore(cfg.ChatSessionTTL, sessionSweepInterval)
	defer sessions.Close()

	client := llm.NewHTTPClient(cfg.LLMURL, cfg.LLMModel)
	extractor := extract.New()
	gen := generator.New(client, logger)

	handler := api.NewHandler(
		db,
		service.NewGenerationService(db, gen, extractor, logger),
		service.NewAnalyticsService(db, client, cfg.LLMInsightModel, logger),
		service.NewChatService(db, sessions, client, logger),
		service.NewExplainService(db, client, logger),
		extractor,
		cfg.UploadDir,
		logger,
	)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Session-Id"},
		ExposedHeaders: []string{"X-Session-Id"},
	})
	logged := api.Logging(logger)(corsHandler.Handler(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
