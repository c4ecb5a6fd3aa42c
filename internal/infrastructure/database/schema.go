package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is valid for both PostgreSQL and SQLite. Timestamps are written by
// the application in UTC.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		age INTEGER NOT NULL,
		gender VARCHAR(16) NOT NULL,
		religion VARCHAR(64),
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		location VARCHAR(255),
		profession VARCHAR(255),
		academic_background VARCHAR(255),
		profile_picture_url TEXT,
		marital_status VARCHAR(32),
		hobbies TEXT,
		interests TEXT,
		height_cm DOUBLE PRECISION,
		weight_kg DOUBLE PRECISION,
		blood_group VARCHAR(8),
		health_status VARCHAR(255),
		dietary_preference VARCHAR(64),
		smoking_habit VARCHAR(64),
		alcohol_consumption VARCHAR(64),
		preferred_age_min INTEGER,
		preferred_age_max INTEGER,
		preferred_religion VARCHAR(64),
		willing_to_relocate BOOLEAN NOT NULL DEFAULT FALSE,
		additional_comments TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(64) NOT NULL UNIQUE,
		device_info TEXT,
		ip_address VARCHAR(64),
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interests (
		id VARCHAR(36) PRIMARY KEY,
		from_user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		to_user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(16) NOT NULL,
		message TEXT,
		pair_key VARCHAR(80) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP,
		CHECK (from_user_id <> to_user_id),
		CHECK (status IN ('pending', 'accepted', 'rejected'))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_interests_active_pair
		ON interests (pair_key) WHERE status IN ('pending', 'accepted')`,
	`CREATE INDEX IF NOT EXISTS ix_interests_from ON interests (from_user_id, status)`,
	`CREATE INDEX IF NOT EXISTS ix_interests_to ON interests (to_user_id, status)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(32) NOT NULL,
		from_user_id VARCHAR(36) REFERENCES users(id) ON DELETE SET NULL,
		related_id VARCHAR(36),
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_notifications_user ON notifications (user_id, is_read, created_at)`,
}

// Migrate creates missing tables and indexes.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
