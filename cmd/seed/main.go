// seed inserts development sample users for local testing.
// Idempotent: existing emails are skipped.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ameblo/vouch"
	pgxadapter "github.com/ameblo/vouch/adapters/pgx"
	"github.com/ameblo/vouch/config"
)

const devPassword = "password123"

var devUsers = []vouch.User{
	{Name: "Jane Doe", Email: "jane@example.com"},
	{Name: "Alice Johnson", Email: "alice@example.com"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := pgxadapter.New(pool)
	hasher := vouch.NewArgon2()

	for _, u := range devUsers {
		if _, err := store.GetUserByEmail(ctx, u.Email); err == nil {
			slog.Info("user exists, skipping", "email", u.Email)
			continue
		}

		hash, err := hasher.Hash(devPassword)
		if err != nil {
			slog.Error("hash password", "error", err)
			os.Exit(1)
		}

		user := u
		user.Password = hash
		if err := store.CreateUser(ctx, &user); err != nil {
			slog.Error("create user", "email", u.Email, "error", err)
			os.Exit(1)
		}
		slog.Info("user created", "id", user.ID, "email", user.Email)
	}
}
