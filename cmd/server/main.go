package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeteak/backend/internal/handler"
	"github.com/codeteak/backend/internal/logging"
	"github.com/codeteak/backend/internal/metrics"
	"github.com/codeteak/backend/internal/repository"
	"github.com/codeteak/backend/internal/service"
	"github.com/codeteak/backend/pkg/auth"
	"github.com/codeteak/backend/pkg/newsapi"
	"github.com/codeteak/backend/pkg/openweather"
	"github.com/codeteak/backend/pkg/resend"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Submission store: durable Postgres tier when DATABASE_URL is set,
	// otherwise the in-process ephemeral tier. The choice is made once here;
	// nothing downstream branches on it.
	var (
		db        handler.Pinger
		submRepo  repository.SubmissionRepository
		memRepo   = repository.NewMemorySubmissionRepository()
		dbEnabled bool
	)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := repository.NewPool(context.Background(), dbURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()

		db = pool
		dbEnabled = true
		pgRepo := repository.NewPgSubmissionRepository(pool)
		if os.Getenv("STORE_STRICT") == "true" {
			// Fail loud: database errors surface to callers instead of
			// silently degrading to the ephemeral tier.
			submRepo = pgRepo
		} else {
			submRepo = repository.NewFallbackSubmissionRepository(pgRepo, memRepo)
		}
	} else {
		slog.Warn("DATABASE_URL not set, submissions are stored in memory and lost on restart")
		submRepo = memRepo
	}

	recorder := metrics.NewRecorder(nil)

	mailer := resend.NewClient(os.Getenv("RESEND_API_KEY"))
	if mailer.APIKey == "" {
		slog.Info("RESEND_API_KEY not set, email notifications disabled")
	}
	dispatcher := service.NewDispatcher(mailer, service.DispatcherConfig{
		FromEmail:  os.Getenv("RESEND_FROM_EMAIL"),
		AdminEmail: os.Getenv("RESEND_TO_EMAIL"),
		BaseURL:    os.Getenv("BASE_URL"),
		WebhookURL: os.Getenv("SHEETS_WEBHOOK_URL"),
	}, recorder)

	submissionService := service.NewSubmissionService(submRepo, dispatcher)

	adminSecret := os.Getenv("ADMIN_API_KEY")
	allowDevToken := os.Getenv("ADMIN_ALLOW_DEV_TOKEN") == "true"
	if adminSecret == "" && !allowDevToken {
		slog.Warn("ADMIN_API_KEY not set and dev token disabled, all admin requests will be rejected")
	}

	h := handler.New(db, frontendURL)
	contactHandler := handler.NewContactHandler(submissionService, dbEnabled, recorder)
	newsHandler := handler.NewNewsHandler(newsapi.NewClient(os.Getenv("NEWS_API_KEY")), recorder)
	weatherHandler := handler.NewWeatherHandler(openweather.NewClient(os.Getenv("OPENWEATHER_API_KEY")), recorder)

	requireAdmin := auth.RequireAdmin(adminSecret, allowDevToken)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/contact", contactHandler.Submit)
	mux.HandleFunc("GET /api/news", newsHandler.Get)
	mux.HandleFunc("GET /api/weather", weatherHandler.Get)
	mux.Handle("GET /metrics", recorder.Handler())

	// Admin endpoints
	mux.Handle("GET /api/contact", requireAdmin(http.HandlerFunc(contactHandler.List)))
	mux.Handle("PATCH /api/contact/{id}", requireAdmin(http.HandlerFunc(contactHandler.UpdateStatus)))
	mux.Handle("DELETE /api/contact/{id}", requireAdmin(http.HandlerFunc(contactHandler.Delete)))

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      h.CORS(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// Let fire-and-forget notifications finish before the process exits.
	dispatcher.Wait()
}
