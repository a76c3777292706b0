// Command seed loads development admins and profiles from a YAML file.
// Records that already exist are skipped, so the command can be re-run.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository/postgres"
	"alumni-directory-backend/internal/security"
	"alumni-directory-backend/internal/service"
)

const seedActor = "seed"

type seedAdmin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type seedProfile struct {
	Email          string `yaml:"email"`
	Name           string `yaml:"name"`
	Phone          string `yaml:"phone"`
	GraduationYear int    `yaml:"graduationYear"`
	Degree         string `yaml:"degree"`
	Department     string `yaml:"department"`
	CurrentJob     string `yaml:"currentJob"`
	Company        string `yaml:"company"`
	Location       string `yaml:"location"`
	LinkedinURL    string `yaml:"linkedinUrl"`
	Bio            string `yaml:"bio"`
	Status         string `yaml:"status"`
	Reason         string `yaml:"reason"`
}

type seedData struct {
	Admins   []seedAdmin   `yaml:"admins"`
	Profiles []seedProfile `yaml:"profiles"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("data", "config/seed.dev.yaml", "Path to seed data file")
	flag.Parse()

	cfg, err := config.Load(resolvePath(*configPath))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	data, err := readSeedFile(resolvePath(*seedPath))
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := postgres.NewStore(db)
	repos := store.Repositories()
	tokens := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AdminTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.SessionTokenExpiry)*time.Minute)

	adminSvc := service.NewAdminService(repos, tokens)
	profileSvc := service.NewProfileService(repos, store, cfg.Profile.PhoneRegion)
	engine := service.NewModerationEngine(store, nil)

	for _, a := range data.Admins {
		if _, err := adminSvc.CreateAdmin(ctx, a.Username, a.Password); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				logger.Info("Admin already exists, skipping", "username", a.Username)
				continue
			}
			log.Fatalf("Failed to create admin %s: %v", a.Username, err)
		}
		logger.Info("Admin created", "username", a.Username)
	}

	for _, sp := range data.Profiles {
		if err := seedOne(ctx, profileSvc, engine, sp); err != nil {
			log.Fatalf("Failed to seed profile %s: %v", sp.Email, err)
		}
	}

	logger.Info("Seed data loaded", "admins", len(data.Admins), "profiles", len(data.Profiles))
}

func seedOne(ctx context.Context, profiles service.ProfileService, engine service.ModerationEngine, sp seedProfile) error {
	p, err := profiles.CreateDirect(ctx, sp.input())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			logger.Info("Profile already exists, skipping", "email", sp.Email)
			return nil
		}
		return err
	}

	var action domain.ModerationAction
	switch domain.ProfileStatus(sp.Status) {
	case "", domain.ProfileStatusPending:
		return nil
	case domain.ProfileStatusApproved:
		action = domain.ModerationApprove
	case domain.ProfileStatusRejected:
		action = domain.ModerationReject
	case domain.ProfileStatusBlocked:
		action = domain.ModerationBlock
	default:
		return fmt.Errorf("unknown status %q", sp.Status)
	}

	_, err = engine.Apply(ctx, p.ID, action, seedActor, sp.Reason)
	return err
}

func (sp seedProfile) input() domain.NewProfileInput {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	in := domain.NewProfileInput{Email: sp.Email}
	in.Name = opt(sp.Name)
	in.Phone = opt(sp.Phone)
	in.Degree = opt(sp.Degree)
	in.Department = opt(sp.Department)
	in.CurrentJob = opt(sp.CurrentJob)
	in.Company = opt(sp.Company)
	in.Location = opt(sp.Location)
	in.LinkedinURL = opt(sp.LinkedinURL)
	in.Bio = opt(sp.Bio)
	if sp.GraduationYear != 0 {
		year := sp.GraduationYear
		in.GraduationYear = &year
	}
	return in
}

func readSeedFile(filename string) (*seedData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// resolvePath tries p as given, then relative to the module root.
func resolvePath(p string) string {
	if _, err := os.Stat(p); err == nil {
		return p
	}
	full := filepath.Join(findProjectRoot(), p)
	if _, err := os.Stat(full); err == nil {
		return full
	}
	return p
}

func findProjectRoot() string {
	// go.mod marks the project root
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}
