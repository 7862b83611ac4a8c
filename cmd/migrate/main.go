package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`DROP TABLE IF EXISTS payments`,
		`DROP TABLE IF EXISTS fees`,
		`DROP TABLE IF EXISTS poll_votes`,
		`DROP TABLE IF EXISTS polls`,
		`DROP TABLE IF EXISTS residents`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS residents (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			unit_number TEXT NOT NULL DEFAULT '',
			is_resident BOOLEAN NOT NULL DEFAULT true,
			is_renter BOOLEAN NOT NULL DEFAULT false,
			is_board_member BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_blocked BOOLEAN NOT NULL DEFAULT false,
			block_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS polls (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			options TEXT[] NOT NULL,
			allow_multiple_votes BOOLEAN NOT NULL DEFAULT false,
			expires_at TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_by BIGINT NOT NULL REFERENCES residents(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT polls_option_count CHECK (array_length(options, 1) BETWEEN 2 AND 10)
		)`,

		`CREATE TABLE IF NOT EXISTS poll_votes (
			poll_id BIGINT NOT NULL REFERENCES polls(id),
			user_id BIGINT NOT NULL REFERENCES residents(id),
			selected_options INT[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (poll_id, user_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_poll_votes_user ON poll_votes(user_id)`,

		`CREATE TABLE IF NOT EXISTS fees (
			id BIGSERIAL PRIMARY KEY,
			resident_id BIGINT NOT NULL REFERENCES residents(id),
			year INT NOT NULL DEFAULT 0,
			name TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			fee_type TEXT NOT NULL DEFAULT 'Fee',
			status TEXT NOT NULL DEFAULT 'Pending',
			reason TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			date_issued TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_fees_resident ON fees(resident_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fees_type ON fees(fee_type)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			resident_id BIGINT NOT NULL REFERENCES residents(id),
			fee_id BIGINT REFERENCES fees(id),
			fine_id BIGINT REFERENCES fees(id),
			amount NUMERIC(12,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			status TEXT NOT NULL DEFAULT 'pending',
			fee_type TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT '',
			external_payment_id TEXT NOT NULL DEFAULT '' UNIQUE,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			description TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_payments_resident ON payments(resident_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_fee_type_status ON payments(resident_id, fee_type, status)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec failed: %w", err)
		}
	}
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// bcrypt hash of "changeme123", for local development only
	const devHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

	_, err := conn.Exec(ctx, `
		INSERT INTO residents (first_name, last_name, email, password_hash, address, is_resident, is_renter, is_board_member)
		VALUES
			('Alice', 'Nguyen', 'alice@example.com', $1, '12 Oak Lane', true, false, true),
			('Bob', 'Harris', 'bob@example.com', $1, '14 Oak Lane', true, false, false),
			('Cara', 'Lopez', 'cara@example.com', $1, '16 Oak Lane', true, true, false)
		ON CONFLICT (email) DO NOTHING
	`, devHash)
	if err != nil {
		return fmt.Errorf("seed residents: %w", err)
	}

	return nil
}
