package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"uprez-backend/config"
	"uprez-backend/controllers"
	"uprez-backend/routes"
	"uprez-backend/services"
	"uprez-backend/storage"
	"uprez-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	// Required API key (keep behavior: fatal if missing)
	apiKey := os.Getenv("AIGEN_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ ERROR: AIGEN_API_KEY environment variable is not set. Cannot initialize copy service.")
	}
	log.Println("✅ AIGEN_API_KEY detected.")

	// Connect database (config.ConnectDatabase should set config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	store := storage.NewGormStore(db)

	copyService := services.NewAigenCopyService(services.CopyConfig{
		Endpoint: utils.EnvOrDefault("AIGEN_ENDPOINT", "https://api.aigen.online/v1/chat"),
		APIKey:   apiKey,
		Model:    utils.EnvOrDefault("AIGEN_MODEL", "copywriter-v1"),
	})

	notifier := services.NewSMTPNotifier(services.SMTPConfig{
		Host:            utils.EnvOrDefault("SMTP_HOST", "localhost"),
		Port:            utils.EnvOrDefault("SMTP_PORT", "587"),
		Username:        os.Getenv("SMTP_USERNAME"),
		Password:        os.Getenv("SMTP_PASSWORD"),
		From:            utils.EnvOrDefault("SMTP_FROM", "offers@uprez.local"),
		FromName:        utils.EnvOrDefault("SMTP_FROM_NAME", "UpRez"),
		ContactOverride: os.Getenv("CONTACT_EMAIL"),
	})

	offerService := services.NewOfferService(store, copyService, notifier, services.OfferConfig{
		FrontendURL: utils.EnvOrDefault("FRONTEND_URL", "http://localhost:3030"),
	})

	offerController := controllers.NewOfferController(offerService)
	webhookController := controllers.NewWebhookController(offerService)
	hostController := controllers.NewHostController(store)

	router := routes.SetupRouter(offerController, webhookController, hostController)

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
