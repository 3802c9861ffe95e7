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
	"github.com/weddingwise/weddingwise-bookings/internal/cache"
	"github.com/weddingwise/weddingwise-bookings/internal/http/handlers"
	wwmiddleware "github.com/weddingwise/weddingwise-bookings/internal/http/middleware"
	"github.com/weddingwise/weddingwise-bookings/internal/mailer"
	"github.com/weddingwise/weddingwise-bookings/internal/repo/postgres"
	"github.com/weddingwise/weddingwise-bookings/internal/service"
	"github.com/weddingwise/weddingwise-bookings/pkg/config"
	"github.com/weddingwise/weddingwise-bookings/pkg/database"
	"github.com/weddingwise/weddingwise-bookings/pkg/events"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
	mw "github.com/weddingwise/weddingwise-bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus is optional; without NATS events are dropped
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		publisher = natsPub
	}

	// Catalog cache is optional; without redis listings hit the database
	var catalogCache *cache.CatalogCache
	if cfg.Redis.URL != "" {
		catalogCache, err = cache.NewCatalogCache(cfg.Redis.URL, cfg.Redis.CacheTTL)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer catalogCache.Close()
	}

	mailService := selectMailer(cfg)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	resetRepo := postgres.NewResetRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)

	// Initialize services
	authService := service.NewAuthService(
		userRepo, resetRepo, mailService, publisher,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.ResetTokenTTL,
		cfg.Frontend.URL,
	)
	catalogService := service.NewCatalogService(catalogRepo, bookingRepo, catalogCache)
	bookingService := service.NewBookingService(bookingRepo, catalogRepo, mailService, publisher)

	// Initialize handlers and middleware
	h := handlers.New(authService, catalogService, bookingService, mailService)
	authMW := wwmiddleware.NewAuth(cfg.Auth.JWTSecret)

	resetLimiter := wwmiddleware.NewRateLimiter(pool, wwmiddleware.RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
		KeyFunc:  wwmiddleware.IPRateLimitKeyFunc("reset"),
	})
	contactLimiter := wwmiddleware.NewRateLimiter(pool, wwmiddleware.RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
		KeyFunc:  wwmiddleware.IPRateLimitKeyFunc("contact"),
	})

	// Expired reset tokens are dead rows; sweep them hourly
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := resetRepo.DeleteExpiredTokens(context.Background())
			if err != nil {
				logger.Warn("Failed to delete expired reset tokens", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Deleted expired reset tokens", "count", deleted)
			}
		}
	}()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.URL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(resetLimiter.Middleware()).Post("/send-reset-password-email", h.SendResetPasswordEmail)
			r.Post("/reset-password", h.ResetPassword)
			r.With(authMW.RequireAuth).Put("/update-profile", h.UpdateProfile)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh-token", h.RefreshToken)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{id}", h.GetEvent)
			r.With(authMW.OptionalAuth).Post("/book", h.BookEvent)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth, authMW.RequireAdmin)
				r.Post("/", h.CreateEvent)
				r.Put("/{id}", h.UpdateEvent)
				r.Delete("/{id}", h.DeleteEvent)
			})
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", h.ListVendors)
			r.Get("/{id}", h.GetVendor)
			r.With(authMW.OptionalAuth).Post("/book", h.BookVendor)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth, authMW.RequireAdmin)
				r.Post("/", h.CreateVendor)
				r.Put("/{id}", h.UpdateVendor)
				r.Delete("/{id}", h.DeleteVendor)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Post("/confirm-booking", h.ConfirmBookings)
			r.Get("/", h.ListBookings)
			r.Get("/{id}", h.GetBooking)
			r.Put("/{id}", h.UpdateBooking)
			r.Delete("/{id}", h.DeleteBooking)
		})

		r.With(contactLimiter.Middleware()).Post("/contact", h.Contact)
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

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("WeddingWise bookings API listening", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// selectMailer picks the outbound email transport: dev mode prints to
// the log, a MailerSend key wins over SMTP when both are configured.
func selectMailer(cfg *config.Config) mailer.Service {
	if cfg.Email.DevMode {
		logger.Info("Using dev mailer (emails printed to log)")
		return mailer.NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return mailer.NewMailerSend(
			cfg.Email.MailerSendKey,
			cfg.Email.FromName,
			cfg.Email.SMTPFrom,
			cfg.Email.ContactInbox,
			cfg.Email.SendTimeout,
		)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPFrom,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPass,
		cfg.Email.SMTPUseTLS,
		cfg.Email.ContactInbox,
		cfg.Email.SendTimeout,
	)
}
