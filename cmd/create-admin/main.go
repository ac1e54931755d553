// Command create-admin creates the first administrator, or resets its
// password when the account already exists.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/config"
	"github.com/WenderAlvesSantos/api-aecac/logger"
	"github.com/WenderAlvesSantos/api-aecac/models"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/security"
)

func main() {
	_ = godotenv.Load()
	log := logger.New("info", "console")
	defer log.Sync()

	email := strings.ToLower(strings.TrimSpace(getenv("ADMIN_EMAIL", "admin@aecac.org.br")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := getenv("ADMIN_NAME", "Administrador")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := config.ConnectDB(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	users := repositories.NewUserRepository(client.Database(cfg.DBName))

	hash, err := security.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	_, err = users.FindAdminByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := users.UpdatePassword(ctx, email, hash, false); err != nil {
			log.Fatal("failed to update password", zap.Error(err))
		}
		log.Info("administrator already existed, password updated", zap.String("email", email))
	case errors.Is(err, repositories.ErrNotFound):
		now := time.Now()
		admin := &models.Admin{Email: email, Password: hash, Name: name, CreatedAt: now, UpdatedAt: now}
		if err := users.InsertAdmin(ctx, admin); err != nil {
			log.Fatal("failed to create administrator", zap.Error(err))
		}
		log.Info("administrator created", zap.String("email", email), zap.String("id", admin.ID.Hex()))
	default:
		log.Fatal("failed to look up administrator", zap.Error(err))
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
