package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ankicc/backend/config"
	"github.com/ankicc/backend/pkg/helpers"
	"github.com/ankicc/backend/pkg/validation"
)

// Seeds an admin account for fresh deployments. Safe to re-run.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if *password == "" {
		log.Fatal("-password is required")
	}
	if err := validation.ValidateCredentials(*username, *email, *password); err != nil {
		log.Fatalf("invalid admin credentials: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_admin = TRUE
		RETURNING id
	`, *username, *email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s email=%s\n", id, *username, *email)
}
