package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/emre/resitdesk/internal/pkg/auth"
)

const defaultSecretaryEmail = "secretary@resitdesk.app"

// CreateDefaultData seeds the default secretary account so a fresh install
// has a caller able to provision everything else. Idempotent.
func CreateDefaultData(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, defaultSecretaryEmail).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for default secretary: %w", err)
	}
	if exists {
		lgr.Debug().Str("email", defaultSecretaryEmail).Msg("Default secretary already present")
		return nil
	}

	hashed, err := auth.HashPassword("secretary123")
	if err != nil {
		return fmt.Errorf("failed to hash default secretary password: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type, is_active)
		VALUES ($1, $2, 'Default', 'Secretary', 'SECRETARY', TRUE)`,
		defaultSecretaryEmail, hashed)
	if err != nil {
		return fmt.Errorf("failed to create default secretary: %w", err)
	}

	lgr.Info().Str("email", defaultSecretaryEmail).Msg("Default secretary account created")
	return nil
}
