// Command createadmin bootstraps an administrator account from the command
// line, bypassing the public signup endpoint's role coercion.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/smartdesk/internal/auth"
	"github.com/spec-kit/smartdesk/internal/config"
	"github.com/spec-kit/smartdesk/internal/domain"
	"github.com/spec-kit/smartdesk/internal/observability"
	"github.com/spec-kit/smartdesk/internal/persistence"
	"github.com/spec-kit/smartdesk/internal/repository"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (prompted when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if *name == "" || *email == "" {
		log.Fatal("both -name and -email are required")
	}
	pass := *password
	if pass == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("failed to read password: %v", err)
		}
		pass = strings.TrimSpace(line)
	}
	if len(pass) < cfg.Auth.MinPasswordLength {
		log.Fatalf("password must be at least %d characters", cfg.Auth.MinPasswordLength)
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	users := repository.NewUserRepository(pg.PoolHandle())

	normalizedEmail := strings.ToLower(strings.TrimSpace(*email))
	if _, err := users.GetByEmail(ctx, normalizedEmail); err == nil {
		logger.Fatal("email already registered", zap.String("email", normalizedEmail))
	} else if err != pgx.ErrNoRows {
		logger.Fatal("failed to check existing account", zap.Error(err))
	}

	hash, err := auth.HashPassword(pass, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	user := &domain.User{
		Name:         strings.TrimSpace(*name),
		Email:        normalizedEmail,
		PasswordHash: hash,
		Role:         domain.UserRoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}

	logger.Info("admin account created",
		zap.String("id", user.ID),
		zap.String("email", user.Email))
}
