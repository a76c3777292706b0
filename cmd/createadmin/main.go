// Command createadmin seeds an administrator account. Credentials come from
// flags or from ADMIN_USERNAME and ADMIN_PASSWORD.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository/postgres"
	"alumni-directory-backend/internal/security"
	"alumni-directory-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	username := flag.String("username", "", "Admin username (default $ADMIN_USERNAME)")
	password := flag.String("password", "", "Admin password (default $ADMIN_PASSWORD)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}
	if *username == "" {
		*username = os.Getenv("ADMIN_USERNAME")
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	tokens := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AdminTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.SessionTokenExpiry)*time.Minute)
	adminSvc := service.NewAdminService(postgres.NewStore(db).Repositories(), tokens)

	admin, err := adminSvc.CreateAdmin(ctx, *username, *password)
	if err != nil {
		logger.Error("Failed to create admin", "username", *username, "error", err)
		log.Fatalf("Failed to create admin: %v", err)
	}
	logger.Info("Admin created", "id", admin.ID, "username", admin.Username)
}
