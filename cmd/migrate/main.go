package main

import (
	"context" // Context for the admin seed
	"flag"    // Command line flags

	"consciousbet/internal/auth"       // Token service required by the auth service
	"consciousbet/internal/config"     // Custom import path (Config)
	"consciousbet/internal/db"         // Custom import path (Database)
	"consciousbet/internal/repository" // GORM backed store
	"consciousbet/internal/service"    // Admin seeding

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	seed := flag.Bool("seed-admin", true, "create the admin login when missing") // Seed flag
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DSN(), cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if !*seed {
		return
	}
	authService := service.NewAuthService(repository.NewStore(gdb), auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
	created, err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logrus.Fatalf("failed to seed admin: %v", err)
	}
	logrus.WithFields(logrus.Fields{"email": cfg.AdminEmail, "created": created}).Info("Admin login checked")
}
