package db

import (
	"fmt"
	"log"
)

// The service owns its schema rather than reflecting it from a live
// database. Statements are idempotent so Migrate can run on every start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		address VARCHAR(255),
		phone_number VARCHAR(30),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		product_name VARCHAR(120) NOT NULL,
		description VARCHAR(1000),
		price NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}

	for _, stmt := range migrations {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("error applying migration: %w", err)
		}
	}

	log.Println("Database schema is up to date")
	return nil
}
