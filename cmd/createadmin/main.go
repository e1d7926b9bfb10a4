package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"fundflow/internal/infra"
	"fundflow/internal/sqlinline"
)

// createadmin provisions an admin account. There is no signup endpoint; this
// is the only way accounts come into existence.
func main() {
	var (
		emailFlag    string
		passwordFlag string
	)

	flag.StringVar(&emailFlag, "email", "", "admin email address")
	flag.StringVar(&passwordFlag, "password", "", "admin password")
	flag.Parse()

	email := strings.ToLower(strings.TrimSpace(emailFlag))
	password := passwordFlag

	if email == "" || !strings.Contains(email, "@") {
		exitWithError(errors.New("-email must be a valid address"))
	}
	if len(password) < 8 {
		exitWithError(errors.New("-password must be at least 8 characters"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		exitWithError(fmt.Errorf("failed to hash password: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "createadmin").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	row := runner.QueryRow(ctx, sqlinline.QInsertAdmin, email, string(hash))
	var id string
	if err := row.Scan(&id); err != nil {
		exitWithError(fmt.Errorf("failed to create admin: %w", err))
	}

	fmt.Printf("Admin %s created (%s)\n", email, id)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
