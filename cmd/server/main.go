package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	grpcapi "alumni-directory-backend/internal/api/grpc"
	httpapi "alumni-directory-backend/internal/api/http"
	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/identity"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository/postgres"
	"alumni-directory-backend/internal/security"
	"alumni-directory-backend/internal/service"
	"alumni-directory-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Alumni Directory backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_port", cfg.Server.GRPCPort)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Notification configuration", "provider", cfg.Notification.Provider)

	ctx := context.Background()

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema up to date")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := store.Repositories()

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AdminTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.SessionTokenExpiry)*time.Minute,
	)

	// Identity provider
	verifier, err := identity.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Error("Failed to initialize identity verifier", "error", err)
		log.Fatalf("Failed to initialize identity verifier: %v", err)
	}

	// Picture storage
	logger.Info("Using local picture storage", "upload_dir", cfg.Storage.UploadDir)
	pictureStore, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize picture storage", "error", err)
		log.Fatalf("Failed to initialize picture storage: %v", err)
	}

	// Notifications
	notifier, err := service.NewNotifier(cfg.Notification, cfg.Server.PublicBaseURL)
	if err != nil {
		logger.Error("Failed to initialize notifier", "error", err)
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	// Initialize Services
	sessionSvc := service.NewSessionService(repos, verifier, tokenManager)
	profileSvc := service.NewProfileService(repos, store, cfg.Profile.PhoneRegion)
	moderationSvc := service.NewModerationEngine(store, notifier)
	adminSvc := service.NewAdminService(repos, tokenManager)
	pictureSvc := service.NewPictureService(repos, pictureStore, cfg.Storage.MaxFileSize<<20, cfg.Storage.AllowedTypes)

	// HTTP server
	handler := httpapi.NewHandler(httpapi.Services{
		Sessions:   sessionSvc,
		Profiles:   profileSvc,
		Moderation: moderationSvc,
		Admins:     adminSvc,
		Pictures:   pictureSvc,
	}, httpapi.CookieConfig{
		Secure:     cfg.Server.CookieSecure,
		SessionTTL: time.Duration(cfg.JWT.SessionTokenExpiry) * time.Minute,
		AdminTTL:   time.Duration(cfg.JWT.AdminTokenExpiry) * time.Minute,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// gRPC health and reflection
	grpcServer, healthSrv := grpcapi.NewServer(db, adminSvc)
	if cfg.Server.GRPCPort != 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		go func() {
			logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
