package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
)

// FeedConfigRow is the raw system_settings row. The token stays encrypted at
// this layer; the system service owns encryption and decryption.
type FeedConfigRow struct {
	Vendor         string
	TokenEncrypted string
	TokenExpiresAt *time.Time
	UpdatedAt      time.Time
}

// SystemRepository provides data access methods for the single-row
// system_settings table.
type SystemRepository struct {
	db *sql.DB
}

// NewSystemRepository creates a new SystemRepository with the provided database connection.
func NewSystemRepository(db *sql.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

// GetFeedConfig retrieves the vendor feed configuration row.
func (r *SystemRepository) GetFeedConfig() (FeedConfigRow, error) {
	row := r.db.QueryRow(`
		SELECT vendor, token_encrypted, token_expires_at, updated_at
		FROM system_settings
		WHERE id = 1
	`)

	var (
		cfg        FeedConfigRow
		expiresStr sql.NullString
		updatedStr string
	)
	err := row.Scan(&cfg.Vendor, &cfg.TokenEncrypted, &expiresStr, &updatedStr)
	if err == sql.ErrNoRows {
		return FeedConfigRow{}, apperrors.ErrFeedConfigNotFound
	}
	if err != nil {
		return FeedConfigRow{}, fmt.Errorf("failed to query system_settings table: %w", err)
	}

	if expiresStr.Valid {
		expires, err := ParseTime(expiresStr.String)
		if err != nil {
			return FeedConfigRow{}, err
		}
		cfg.TokenExpiresAt = &expires
	}
	if cfg.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return FeedConfigRow{}, err
	}

	return cfg, nil
}

// UpsertFeedConfig writes the vendor feed configuration row.
func (r *SystemRepository) UpsertFeedConfig(cfg FeedConfigRow) error {
	var expires any
	if cfg.TokenExpiresAt != nil {
		expires = cfg.TokenExpiresAt.UTC().Format(time.RFC3339)
	}

	_, err := r.db.Exec(`
		INSERT INTO system_settings (id, vendor, token_encrypted, token_expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			vendor = excluded.vendor,
			token_encrypted = excluded.token_encrypted,
			token_expires_at = excluded.token_expires_at,
			updated_at = excluded.updated_at
	`,
		cfg.Vendor,
		cfg.TokenEncrypted,
		expires,
		cfg.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert system_settings: %w", err)
	}
	return nil
}
