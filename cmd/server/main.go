package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vesseliq/backend/docs"
	"github.com/vesseliq/backend/internal/config"
	"github.com/vesseliq/backend/internal/database"
	"github.com/vesseliq/backend/internal/handlers"
	mW "github.com/vesseliq/backend/internal/middleware"
	"github.com/vesseliq/backend/internal/services"
)

// @title VesselIQ Credits API
// @version 1.0
// @description Credits, pricing and reservation API for the VesselIQ maritime intelligence platform
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env
	viper.ReadInConfig()        // read .env file

	// Set environment variable prefix
	viper.SetEnvPrefix("")

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "VesselIQ Credits API"
	docs.SwaggerInfo.Description = "Credits, pricing and reservation API for the VesselIQ maritime intelligence platform"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	creditsConfig := config.LoadCreditsConfig()

	ledgerService := services.NewCreditLedgerService(db)
	pricingService := services.NewPricingService()
	catalogService := services.NewCatalogService(db, pricingService)
	reservationService := services.NewReservationService(ledgerService, redisClient)
	settlementService := services.NewSettlementService()
	voucherService := services.NewVoucherService(db, redisClient, ledgerService)
	authService := services.NewAuthService(db, redisClient)

	pricingHandler := handlers.NewPricingHandler(pricingService, catalogService)
	creditsHandler := handlers.NewCreditsHandler(ledgerService, reservationService, settlementService, redisClient)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	voucherHandler := handlers.NewVoucherHandler(voucherService)

	// Initialize auth middleware with Redis
	mW.InitAuthMiddleware(redisClient)

	// Scheduled maintenance: reservation sweep and voucher cleanup
	scheduler := cron.New()
	scheduler.AddFunc(creditsConfig.ReservationSweepSpec, func() {
		reservationService.Sweep()
	})
	scheduler.AddFunc("@hourly", func() {
		if err := voucherService.CleanupExpired(context.Background()); err != nil {
			log.Printf("Voucher cleanup failed: %v", err)
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":             "healthy",
			"activeReservations": reservationService.ActiveCount(),
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Serve OpenAPI spec
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yaml")
	})

	// Static file server for package icons
	r.Handle("/static/package-icons/*", http.StripPrefix("/static/package-icons/",
		mW.StaticFileServer("./static/package-icons")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", authService.Register)
		r.Post("/auth/login", authService.Login)
		r.Post("/auth/logout", authService.Logout)
		r.Post("/auth/request-verification", authService.RequestEmailVerification)
		r.Post("/auth/verify-email", authService.VerifyEmail)

		r.Post("/pricing/quote", pricingHandler.Quote)
		r.Get("/pricing/criteria", pricingHandler.ListCriteria)
		r.Get("/pricing/packages", pricingHandler.ListPackages)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Get("/auth/account", authService.GetUserAccount)

			// Credits endpoints
			r.Get("/credits/balance/{accountID}", creditsHandler.GetBalance)
			r.Get("/credits/transactions/{accountID}", creditsHandler.GetTransactions)
			r.Post("/credits/deduct", creditsHandler.Deduct)
			r.Post("/credits/purchase", creditsHandler.Purchase)

			// Reservation endpoints
			r.Post("/reservations", reservationHandler.Reserve)
			r.Post("/reservations/{reservationID}/confirm", reservationHandler.Confirm)
			r.Delete("/reservations/{reservationID}", reservationHandler.Cancel)

			// Voucher endpoints
			r.Post("/vouchers", voucherHandler.Issue)
			r.Post("/vouchers/redeem", voucherHandler.Redeem)
			r.Get("/vouchers", voucherHandler.ListMine)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
