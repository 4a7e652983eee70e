package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/config"
	"github.com/redston-maverick/global-price-scraper/handlers"
	"github.com/redston-maverick/global-price-scraper/middleware"
	"github.com/redston-maverick/global-price-scraper/scheduler"
	"github.com/redston-maverick/global-price-scraper/scraper"
	"github.com/redston-maverick/global-price-scraper/services"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger, err := newLogger(cfg.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// The browser session is the only process-wide shared state. It launches
	// lazily on the first rendered fetch and must be released on shutdown.
	session := scraper.NewBrowserSession(sugar)
	defer session.Close()

	siteScraper := scraper.NewSiteScraper(cfg, session, sugar)
	prices := services.NewPriceService(sugar)
	search := services.NewSearchService(siteScraper, prices, sugar)
	h := handlers.NewHandlers(search, session, cfg.Development, sugar)

	maintenance := scheduler.NewMaintenance(session, prices, cfg.BrowserRecycleSchedule, cfg.RateReloadSchedule, sugar)
	maintenance.Start()
	defer maintenance.Stop()

	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(sugar))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	r.HandleFunc("/health", h.Health).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1/prices").Subrouter()
	apiV1.HandleFunc("/search", h.SearchPrices).Methods("POST")
	apiV1.HandleFunc("/supported", h.GetSupported).Methods("GET")
	apiV1.HandleFunc("/test-site", h.TestSite).Methods("POST")
	apiV1.HandleFunc("/compare-countries", h.CompareCountries).Methods("POST")
	apiV1.HandleFunc("/cleanup", h.Cleanup).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: c.Handler(r),
	}

	go func() {
		sugar.Infow("server starting",
			"addr", srv.Addr,
			"lightweightMode", cfg.LightweightMode,
			"demoMode", cfg.DemoMode,
			"maxConcurrentRequests", cfg.MaxConcurrentRequests)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sugar.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Warnw("shutdown error", "error", err)
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
