package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Database connected successfully")

	return pool, nil
}

// EnsureSchema creates the tables the application needs. The UNIQUE index on
// lower(email) is what closes the concurrent-signup race: the duplicate check
// in the auth service is advisory, the index is authoritative.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('BUYER', 'AGENT', 'ADMIN')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email))`,
		`CREATE TABLE IF NOT EXISTS properties (
			id UUID PRIMARY KEY,
			agent_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT,
			price NUMERIC(14,2) NOT NULL CHECK (price > 0),
			location TEXT NOT NULL,
			dimensions TEXT,
			images TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL CHECK (status IN ('DRAFT', 'PENDING', 'APPROVED', 'REJECTED')),
			rejection_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS properties_agent_idx ON properties (agent_id)`,
		`CREATE INDEX IF NOT EXISTS properties_status_idx ON properties (status)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			property_id UUID NOT NULL REFERENCES properties(id),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'NEW' CHECK (status IN ('NEW', 'CONTACTED', 'QUALIFIED', 'LOST')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS leads_property_idx ON leads (property_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
