package model

import "time"

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}

// FeedConfig is the market-data vendor feed configuration. The feed token is
// stored fernet-encrypted at rest; Token on this struct is always plaintext
// and is never serialised back to callers in full.
type FeedConfig struct {
	Configured     bool       `json:"configured"`
	Vendor         string     `json:"vendor"`
	Token          string     `json:"-"`
	TokenSet       bool       `json:"tokenSet"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
	TokenWarning   string     `json:"tokenWarning,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
