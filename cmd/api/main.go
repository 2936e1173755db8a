package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/adhami/splitscan/internal/config"
	"github.com/adhami/splitscan/internal/database"
	"github.com/adhami/splitscan/internal/extraction"
	"github.com/adhami/splitscan/internal/metrics"
	"github.com/adhami/splitscan/internal/receipt"
	"github.com/adhami/splitscan/pkg/logging"
	mw "github.com/adhami/splitscan/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database")

	// Receipt feature
	receiptRepo := receipt.NewRepository(db)
	receiptService := receipt.NewService(receiptRepo)
	receiptHandler := receipt.NewHandler(receiptService)

	// Extraction feature; disabled without an API key so the rest of the
	// app still works in environments without model access.
	var extractionHandler *extraction.Handler
	if cfg.GeminiAPIKey != "" {
		scanner, err := extraction.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize scanner", "error", err)
			os.Exit(1)
		}
		defer scanner.Close()
		extractionHandler = extraction.NewHandler(extraction.NewService(scanner))
	} else {
		slog.Warn("GEMINI_API_KEY not set, extraction endpoint disabled")
	}

	// One extraction per second with small bursts; each request is a
	// model call.
	extractLimiter := rate.NewLimiter(rate.Limit(1), 5)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(cfg.JWTSecret))

		r.Mount("/receipts", receiptHandler.Routes())
		if extractionHandler != nil {
			r.With(mw.RateLimit(extractLimiter)).Mount("/extract", extractionHandler.Routes())
		}
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
