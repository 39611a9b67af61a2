package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/usecase/auditlog"
	"github.com/fixora/accounts/application/usecase/user"
	"github.com/fixora/accounts/infrastructure/adapter/postgres"
	"github.com/fixora/accounts/infrastructure/config"
	"github.com/fixora/accounts/infrastructure/service/logger"
	"github.com/fixora/accounts/infrastructure/service/metrics"
	"github.com/fixora/accounts/infrastructure/service/password"
	"github.com/fixora/accounts/infrastructure/service/revocation"
)

// create_user registers an account from the command line. It goes through
// the same registration path as POST /register, so the new account gets an
// anonymous create entry in the manipulation log.
func main() {
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "email address")
	pass := flag.String("password", "", "password")
	flag.Parse()

	if *email == "" || *pass == "" {
		log.Fatal("usage: create_user -email <email> -password <password> [-name <name>]")
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "accounts-cli",
	})

	userRepo := postgres.NewUserRepositoryAdapter(db)
	bus := event.NewBus()
	bus.Subscribe(auditlog.NewAuditLogger(postgres.NewAuditLogRepositoryAdapter(db), metrics.New(), structuredLogger))

	users := user.NewUserUseCase(user.Dependencies{
		UserRepo:        userRepo,
		PasswordService: password.NewBcryptPasswordService(cfg.BcryptCost),
		Revocations:     revocation.NewMemoryStore(),
		Transactor:      postgres.NewTransactor(db),
		Publisher:       bus,
		Logger:          structuredLogger,
	})

	created, err := users.Register(ctx, nil, inbound.RegisterRequest{
		Name:                 *name,
		Email:                *email,
		Password:             *pass,
		PasswordConfirmation: *pass,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created: id=%d email=%s\n", created.ID, created.Email)
}
