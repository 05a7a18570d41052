package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/playmatatu/duels/internal/admin"
	"github.com/playmatatu/duels/internal/config"
	"github.com/playmatatu/duels/internal/database"
	"github.com/playmatatu/duels/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
		log.Printf("Using default admin name: %s", name)
	}

	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		if cfg.IsProduction() {
			log.Fatal("ADMIN_TOKEN is required in production")
		}
		token = "change-me-in-production"
		log.Printf("WARNING: Using default admin token. Set ADMIN_TOKEN env var in production!")
	}

	roles := []string{admin.RoleSuperAdmin}
	if r := os.Getenv("ADMIN_ROLES"); r != "" {
		roles = strings.Split(r, ",")
	}

	store := admin.NewStore(db, logger.Named("admin"))
	if err := store.Upsert(context.Background(), name, "Admin", token, roles); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account created/updated")
	log.Printf("  Name: %s", name)
	log.Printf("  Roles: %v", roles)
	log.Printf("Log in with POST /api/v1/admin/login")
}
