package database

import (
	"context"
	"fmt"
)

// schema is idempotent; it runs on every start when DB_MIGRATE is set.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             UUID PRIMARY KEY,
		username       TEXT NOT NULL UNIQUE,
		email          TEXT NOT NULL UNIQUE,
		password       TEXT NOT NULL,
		phone          TEXT,
		role           TEXT NOT NULL DEFAULT 'customer',
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at     TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id),
		token      UUID NOT NULL UNIQUE,
		user_agent TEXT,
		ip_address TEXT,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS service_plans (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		base_price_usd NUMERIC(12, 2) NOT NULL CHECK (base_price_usd >= 0),
		description    TEXT NOT NULL DEFAULT '',
		features       TEXT[] NOT NULL DEFAULT '{}',
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order     INT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                 TEXT PRIMARY KEY,
		user_id            UUID REFERENCES users(id),
		plan_id            TEXT NOT NULL REFERENCES service_plans(id),
		plan_name_snapshot TEXT NOT NULL,
		amount             NUMERIC(14, 2) NOT NULL,
		currency           CHAR(3) NOT NULL,
		payment_reference  TEXT NOT NULL,
		session_handle     TEXT NOT NULL,
		payment_method     TEXT NOT NULL DEFAULT '',
		passenger_details  JSONB NOT NULL DEFAULT '{}',
		status             TEXT NOT NULL CHECK (status IN ('pending_verification', 'paid', 'failed')),
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS bookings_payment_reference_key ON bookings (payment_reference)`,
	`CREATE INDEX IF NOT EXISTS bookings_user_id_created_at_idx ON bookings (user_id, created_at DESC)`,
	`INSERT INTO service_plans (id, name, base_price_usd, description, features, sort_order) VALUES
		('basic', 'Basic', 12.00, 'One-way reservation for a single passenger',
			ARRAY['One-way itinerary', 'Verifiable PNR', 'Delivered by email'], 1),
		('standard', 'Standard', 19.00, 'Round-trip reservation valid for visa applications',
			ARRAY['Round-trip itinerary', 'Verifiable PNR', 'Valid up to 14 days', 'Email or WhatsApp delivery'], 2),
		('premium', 'Premium', 29.00, 'Multi-city reservation with priority support',
			ARRAY['Multi-city itinerary', 'Verifiable PNR', 'Valid up to 30 days', 'Priority support', 'Free date change'], 3)
	ON CONFLICT (id) DO NOTHING`,
}

// Migrate creates the tables this service reads and writes and seeds the
// default plan catalog.
func Migrate(ctx context.Context, db PgxIface) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
