package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Fund-Trading-Backend/internal/database"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
	"github.com/ndewijer/Fund-Trading-Backend/internal/version"
)

// SystemService handles system-related operations: health, version and the
// vendor feed configuration. The feed token is encrypted at rest with the
// fernet key from configuration.
type SystemService struct {
	db         *sql.DB
	systemRepo *repository.SystemRepository
	fernetKey  *fernet.Key
}

// NewSystemService creates a new SystemService. The fernet key is the
// base64-encoded key from configuration; an empty key disables feed token
// storage.
func NewSystemService(db *sql.DB, systemRepo *repository.SystemRepository, fernetKey string) (*SystemService, error) {
	s := &SystemService{db: db, systemRepo: systemRepo}

	if fernetKey != "" {
		keys, err := fernet.DecodeKeys(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		s.fernetKey = keys[0]
	}

	return s, nil
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application and schema versions.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	schemaVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  fmt.Sprintf("%d", schemaVersion),
		Features: map[string]bool{
			"feed_config": s.fernetKey != nil,
		},
	}, nil
}

// GetFeedConfig retrieves the vendor feed configuration without decrypting
// the token. A token expiring within 30 days gets a warning attached.
func (s *SystemService) GetFeedConfig() (model.FeedConfig, error) {
	row, err := s.systemRepo.GetFeedConfig()
	if err != nil {
		return model.FeedConfig{}, err
	}

	cfg := model.FeedConfig{
		Configured:     true,
		Vendor:         row.Vendor,
		TokenSet:       row.TokenEncrypted != "",
		TokenExpiresAt: row.TokenExpiresAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if row.TokenExpiresAt != nil && !row.TokenExpiresAt.IsZero() {
		diff := time.Until(*row.TokenExpiresAt)
		if diff.Hours() <= 720.0 {
			cfg.TokenWarning = fmt.Sprintf("Token expires in %d days", int64(diff.Hours()/24))
		}
	}

	return cfg, nil
}

// SetFeedConfig stores the vendor feed configuration, encrypting the token
// at rest.
func (s *SystemService) SetFeedConfig(vendor, token string, expiresAt *time.Time) error {
	if s.fernetKey == nil {
		return fmt.Errorf("feed token storage requires a configured fernet key")
	}

	encrypted, err := fernet.EncryptAndSign([]byte(token), s.fernetKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt feed token: %w", err)
	}

	return s.systemRepo.UpsertFeedConfig(repository.FeedConfigRow{
		Vendor:         vendor,
		TokenEncrypted: string(encrypted),
		TokenExpiresAt: expiresAt,
		UpdatedAt:      time.Now().UTC(),
	})
}

// FeedToken decrypts and returns the stored feed token for components that
// talk to the vendor.
func (s *SystemService) FeedToken() (string, error) {
	if s.fernetKey == nil {
		return "", fmt.Errorf("feed token storage requires a configured fernet key")
	}

	row, err := s.systemRepo.GetFeedConfig()
	if err != nil {
		return "", err
	}

	token := fernet.VerifyAndDecrypt([]byte(row.TokenEncrypted), 0, []*fernet.Key{s.fernetKey})
	if token == nil {
		return "", fmt.Errorf("failed to decrypt feed token")
	}
	return string(token), nil
}
