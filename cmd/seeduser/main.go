// Command seeduser creates or resets an admin account.
// Usage: go run ./cmd/seeduser -username admin -email admin@example.com -password secret123
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/Pahari47/parkson-assignment/internal/config"
	"github.com/Pahari47/parkson-assignment/internal/infra"
	"github.com/Pahari47/parkson-assignment/internal/model"
	"github.com/Pahari47/parkson-assignment/internal/repository"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", envOr("SEED_USERNAME", "admin"), "admin username")
	email := flag.String("email", envOr("SEED_EMAIL", "admin@example.com"), "admin email")
	password := flag.String("password", os.Getenv("SEED_PASSWORD"), "admin password (or set SEED_PASSWORD)")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx := context.Background()
	repo := repository.NewUserRepository(db)
	user, err := repo.FindByUsername(ctx, *username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{Username: *username}
	case err != nil:
		log.Fatal().Err(err).Msg("lookup user")
	}

	user.Email = strings.ToLower(*email)
	user.PasswordHash = string(hash)
	user.Role = service.RoleAdmin
	user.IsActive = true

	if user.ID == 0 {
		err = repo.Create(ctx, user)
	} else {
		err = repo.Update(ctx, user)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("save user")
	}
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("admin user ready")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
