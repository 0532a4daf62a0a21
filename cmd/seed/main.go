// Command seed creates the initial staff accounts and courts. Safe to run
// repeatedly: existing rows are left alone.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"padelpoint/internal/auth"
	"padelpoint/internal/config"
	"padelpoint/internal/database"
	"padelpoint/internal/models"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("PADELPOINT_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx := context.Background()

	seedUser(ctx, db, &logger, "admin1", envOr("PADELPOINT_ADMIN_PASSWORD", "admin123"), models.RoleAdmin, "Administrator")
	seedUser(ctx, db, &logger, "employee1", envOr("PADELPOINT_EMPLOYEE_PASSWORD", "employee123"), models.RoleEmployee, "Front desk")

	seedCourt(ctx, db, &logger, "Court 1", "Indoor padel court")
	seedCourt(ctx, db, &logger, "Court 2", "Outdoor padel court")

	logger.Info().Msg("seed completed")
}

func seedUser(ctx context.Context, db *database.DB, logger *zerolog.Logger, username, password, role, fullName string) {
	if _, err := db.GetUserByUsername(ctx, username); err == nil {
		logger.Info().Str("username", username).Msg("user exists, skipping")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password error")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     fullName,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		logger.Fatal().Err(err).Str("username", username).Msg("create user error")
	}
	logger.Info().Str("username", username).Str("role", role).Msg("user created")
}

func seedCourt(ctx context.Context, db *database.DB, logger *zerolog.Logger, name, description string) {
	courts, err := db.ListCourts(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("list courts error")
	}
	for _, c := range courts {
		if c.Name == name {
			logger.Info().Str("name", name).Msg("court exists, skipping")
			return
		}
	}

	court := &models.Court{Name: name, Description: description}
	if err := db.CreateCourt(ctx, court); err != nil {
		logger.Fatal().Err(err).Str("name", name).Msg("create court error")
	}
	logger.Info().Int64("court_id", court.ID).Str("name", name).Msg("court created")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
