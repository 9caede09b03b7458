package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	return service.NewPortfolioService(
		portfolioRepo,
		positionRepo,
	)
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	fundRepo := repository.NewFundRepository(db)

	return service.NewFundService(fundRepo)
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	tradeRepo := repository.NewTradeRepository(db)

	return service.NewTradeService(tradeRepo)
}

func NewTestCalendarService(t *testing.T, db *sql.DB) *service.CalendarService {
	t.Helper()

	calendarRepo := repository.NewCalendarRepository(db)

	return service.NewCalendarService(calendarRepo)
}

func NewTestGenerationService(t *testing.T, db *sql.DB) *service.GenerationService {
	t.Helper()

	return service.NewGenerationService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewFundRepository(db),
		repository.NewCalendarRepository(db),
		repository.NewTradeRepository(db),
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(
		db,
		repository.NewFundRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewCalendarRepository(db),
		repository.NewIndexDataRepository(db),
	)
}

// TestFernetKey is a fixed, base64-encoded fernet key for tests.
const TestFernetKey = "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4="

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	systemRepo := repository.NewSystemRepository(db)
	ss, err := service.NewSystemService(db, systemRepo, TestFernetKey)
	if err != nil {
		t.Fatalf("Failed to create system service: %v", err)
	}
	return ss
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	return prefix + randomAlphanumeric(9) + "0"
}

// MakeAccountNumber generates a unique account number for testing.
//
// Example usage:
//
//	account := testutil.MakeAccountNumber()
//	// Returns: "ACC-1A2B3C"
func MakeAccountNumber() string {
	return "ACC-" + randomAlphanumeric(6)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Macro Fund")
//	// Returns: "Macro Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
