// One-off: go run scripts/seed.go
// Seeds a demo account with a few characters. PG_DSN must be set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "PG_DSN is required")
		os.Exit(1)
	}
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		panic(err)
	}
	defer conn.Close(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), 10)
	if err != nil {
		panic(err)
	}
	var userID int64
	err = conn.QueryRow(ctx, `
		INSERT INTO users (username, password_hash) VALUES ('demo', $1)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id`, string(hash)).Scan(&userID)
	if err != nil {
		panic(err)
	}

	for _, c := range []struct{ name, class string }{
		{"Arwen", "Moonlord"},
		{"Beleth", "Saint"},
		{"Cyrene", "Artillery"},
	} {
		_, err = conn.Exec(ctx, `
			INSERT INTO characters (user_id, name, class) VALUES ($1, $2, $3)
			ON CONFLICT (user_id, name) DO NOTHING`, userID, c.name, c.class)
		if err != nil {
			panic(err)
		}
	}
	fmt.Println("seeded user 'demo' (password: demo)")
}
