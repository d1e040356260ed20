package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/homeservices/exchange-api/internal/database"
	"github.com/homeservices/exchange-api/internal/http/handlers"
	httpmw "github.com/homeservices/exchange-api/internal/http/middleware"
	"github.com/homeservices/exchange-api/internal/platform/auth"
	"github.com/homeservices/exchange-api/internal/repo/mongostore"
	"github.com/homeservices/exchange-api/pkg/config"
	"github.com/homeservices/exchange-api/pkg/events"
	"github.com/homeservices/exchange-api/pkg/logger"
	mw "github.com/homeservices/exchange-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to the document store
	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.Mongo.Database)

	// Event bus is optional; without it writes are not announced
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.Enabled {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		publisher = bus
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.CookieName)

	// Server-side revocation is an opt-in extension; logout stays stateless
	// without it
	var denylist auth.Denylist
	if cfg.Auth.DenylistEnabled {
		redisDenylist, err := auth.NewRedisDenylist(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisDenylist.Close()
		denylist = redisDenylist
	}

	// Initialize repositories
	servicesRepo := mongostore.NewServicesRepo(db)
	bookingsRepo := mongostore.NewBookingsRepo(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(tokens, denylist)
	servicesHandler := handlers.NewServicesHandler(servicesRepo, publisher)
	bookingsHandler := handlers.NewBookingsHandler(bookingsRepo, publisher)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)

	// CORS: allow-listed origins only, with credentialed requests permitted
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(mw.Health)

	// Auth
	r.Post("/jwt", authHandler.IssueToken)
	r.Post("/logout", authHandler.Logout)

	// Services
	r.Post("/services", servicesHandler.Create)
	r.Get("/services", servicesHandler.ListAll)
	r.Get("/services/{id}", servicesHandler.GetByID)
	r.Put("/services/{id}", servicesHandler.Replace)
	r.Delete("/services/{id}", servicesHandler.Delete)
	r.Get("/added-services", servicesHandler.ListAdded)

	// Bookings
	r.Post("/bookings", bookingsHandler.Create)
	r.With(httpmw.RequireSession(tokens, denylist)).Get("/bookings", bookingsHandler.ListMine)
	r.Get("/other-bookings", bookingsHandler.ListForProvider)

	// Landing
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("home services is coming..."))
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down home services server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting home services server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
