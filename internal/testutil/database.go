package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Portfolio table
		CREATE TABLE portfolio (
			account_number VARCHAR(200) NOT NULL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			guideline_shares_owned INTEGER,
			guideline_assets_owned INTEGER,
			guideline_max_weight INTEGER,
			CHECK (guideline_shares_owned IS NULL OR guideline_shares_owned BETWEEN 1 AND 100),
			CHECK (guideline_assets_owned IS NULL OR guideline_assets_owned BETWEEN 1 AND 100),
			CHECK (guideline_max_weight IS NULL OR guideline_max_weight BETWEEN 1 AND 100)
		);

		-- Fund table with trading terms
		CREATE TABLE fund (
			isin VARCHAR(200) NOT NULL PRIMARY KEY,
			index_isin VARCHAR(200) NOT NULL,
			name VARCHAR(200) NOT NULL,
			firm VARCHAR(200) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			style VARCHAR(200) NOT NULL,
			strategy VARCHAR(200) NOT NULL,
			flag_restricted BOOLEAN NOT NULL DEFAULT FALSE,
			flag_late_cutoff BOOLEAN NOT NULL DEFAULT FALSE,
			flag_units_trading BOOLEAN NOT NULL DEFAULT FALSE,
			terms_rank INTEGER NOT NULL DEFAULT 1 CHECK (terms_rank >= 1),
			terms_rank_amount INTEGER NOT NULL DEFAULT 0,
			terms_sub_notice INTEGER NOT NULL CHECK (terms_sub_notice >= 0),
			terms_sub_settlement INTEGER NOT NULL CHECK (terms_sub_settlement >= 0),
			terms_sub_minimum REAL NOT NULL CHECK (terms_sub_minimum >= 0),
			terms_red_notice INTEGER NOT NULL CHECK (terms_red_notice >= 0),
			terms_red_settlement INTEGER NOT NULL CHECK (terms_red_settlement >= 0),
			terms_cutoff_time VARCHAR(5) NOT NULL DEFAULT '17:30',
			terms_calendars VARCHAR(500) NOT NULL DEFAULT '',
			terms_man_fee REAL NOT NULL DEFAULT 0,
			terms_perf_fee REAL NOT NULL DEFAULT 0,
			terms_currency VARCHAR(3) NOT NULL DEFAULT 'USD'
		);

		-- Position snapshot table
		CREATE TABLE position (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			account_number VARCHAR(200) REFERENCES portfolio(account_number) ON DELETE SET NULL,
			isin VARCHAR(200) REFERENCES fund(isin) ON DELETE SET NULL,
			flag_cash BOOLEAN NOT NULL DEFAULT FALSE,
			value REAL NOT NULL,
			shares REAL NOT NULL,
			price REAL NOT NULL,
			valuation_date DATE NOT NULL
		);

		-- Generated trade table
		CREATE TABLE trade_item (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			account_number VARCHAR(200) REFERENCES portfolio(account_number) ON DELETE SET NULL,
			isin VARCHAR(200) REFERENCES fund(isin) ON DELETE SET NULL,
			notice_date DATE NOT NULL,
			trade_date DATE NOT NULL,
			settlement_date DATE NOT NULL,
			traded_amount REAL NOT NULL,
			traded_shares REAL NOT NULL,
			trade_note TEXT NOT NULL DEFAULT '',
			breaches TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		-- Holiday calendar table
		CREATE TABLE calendar_date (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			calendar VARCHAR(100) NOT NULL,
			date DATE NOT NULL,
			CONSTRAINT unique_calendar_date UNIQUE (calendar, date)
		);

		-- Vendor index data table
		CREATE TABLE index_data (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			isin VARCHAR(200) REFERENCES fund(isin) ON DELETE SET NULL,
			date DATE NOT NULL,
			assets REAL NOT NULL,
			shares_issued REAL NOT NULL
		);

		-- Single-row system settings table
		CREATE TABLE system_settings (
			id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
			vendor VARCHAR(100) NOT NULL DEFAULT '',
			token_encrypted TEXT NOT NULL DEFAULT '',
			token_expires_at DATETIME,
			updated_at DATETIME NOT NULL
		);

		-- Indexes for performance
		CREATE INDEX idx_position_account_date ON position(account_number, valuation_date);
		CREATE INDEX idx_trade_item_account ON trade_item(account_number, trade_date);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"trade_item",
		"position",
		"index_data",
		"calendar_date",
		"fund",
		"portfolio",
		"system_settings",
	}

	for _, table := range tables {
		//nolint:gosec // G202: Table names are from hardcoded slice, no SQL injection risk
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "trade_item", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
