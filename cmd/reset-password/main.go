// Command reset-password stores a new bcrypt hash for an existing account.
//
//	reset-password -email someone@example.com -password secret [-associado]
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/config"
	"github.com/WenderAlvesSantos/api-aecac/logger"
	"github.com/WenderAlvesSantos/api-aecac/repositories"
	"github.com/WenderAlvesSantos/api-aecac/security"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password")
	associate := flag.Bool("associado", false, "reset an associate instead of an administrator")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("info", "console")
	defer log.Sync()

	target := strings.ToLower(strings.TrimSpace(*email))
	if target == "" || *password == "" {
		flag.Usage()
		log.Fatal("-email and -password are required")
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

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	users := repositories.NewUserRepository(client.Database(cfg.DBName))
	found, err := users.UpdatePassword(ctx, target, hash, *associate)
	if err != nil {
		log.Fatal("failed to update password", zap.Error(err))
	}
	if !found {
		log.Fatal("account not found", zap.String("email", target), zap.Bool("associado", *associate))
	}
	log.Info("password updated", zap.String("email", target), zap.Bool("associado", *associate))
}
