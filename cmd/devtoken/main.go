// Command devtoken prints a signed bearer token for local testing against an
// API running with AUTH_MODE=jwt.
//
//	JWT_SECRET=s3cret go run ./cmd/devtoken -user 6f1c... -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/AAWorks/atlas-infra/internal/auth"
)

func main() {
	user := flag.String("user", "", "user id to embed (random when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime; 0 for no expiry")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	id := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			slog.Error("invalid -user", "error", err)
			os.Exit(1)
		}
		id = parsed
	}

	token, err := auth.NewJWTResolver(secret).Issue(id, *ttl)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "user %s\n", id)
	fmt.Println(token)
}
