package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-accounts/config"
	"github.com/oksasatya/go-user-accounts/internal/application"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/internal/domain/rules"
	pginfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	var users repo.UserRepository
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		users = pginfra.NewUserRepository(pool)
	case "sqlite":
		db, err := sqliteinfra.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite: %v", err)
		}
		defer func() { _ = db.Close() }()
		r := sqliteinfra.NewUserRepository(db)
		if err := r.Init(ctx); err != nil {
			log.Fatalf("failed to init sqlite: %v", err)
		}
		users = r
	default:
		log.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Seeding always applies the strict rules so the demo account is valid in either mode.
	svc := application.NewService(users, helpers.NewBcryptHasher(cfg.BcryptCost), nil, rules.New(rules.Strict), nil, nil)

	fullName := "Demo User"
	email := "demo@example.com"
	password := "Demo1234!"

	u, err := svc.CreateUser(ctx, application.CreateUserInput{FullName: fullName, Email: email, Password: password})
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		fmt.Printf("demo user already present: email=%s\n", email)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, fullName, password)
	}
}
