package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given account number does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrFundNotFound indicates that a fund with the given ISIN does not exist.
	// During trade generation this is fatal to the whole run: missing
	// reference data aborts before any trade is persisted.
	ErrFundNotFound = errors.New("fund not found")

	// ErrTradeNotFound indicates that a trade item with the given ID does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrCalendarNotFound indicates that a named calendar has no registered
	// dates. Fatal to the whole generation run, same as ErrFundNotFound.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrFeedConfigNotFound indicates the vendor feed has not been configured.
	ErrFeedConfigNotFound = errors.New("feed configuration not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrExcessiveRedemption indicates that a requested net redemption exceeds
	// the portfolio's total value. Fatal to the whole generation run, raised
	// before any delta is computed.
	ErrExcessiveRedemption = errors.New("net redemption exceeds portfolio value")

	// ErrNoPriceAvailable indicates that no position snapshot exists at or
	// before the trade date for a fund, so shares cannot be derived. Fatal to
	// that fund's trade only; the rest of the batch proceeds.
	ErrNoPriceAvailable = errors.New("no price available at or before trade date")

	// ErrNoPositions indicates that a portfolio has no position snapshot to
	// generate trades from.
	ErrNoPositions = errors.New("no positions found for portfolio")

	// ErrInvalidTradeMode indicates an unrecognised trade mode was supplied.
	ErrInvalidTradeMode = errors.New("invalid trade mode")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrEmptyID indicates that a required identifier is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrGenerationInFlight indicates that a generation run is already in
	// flight for the same account number. Runs for one portfolio are
	// serialized; the caller should retry once the current run completes.
	ErrGenerationInFlight = errors.New("trade generation already in flight for portfolio")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a position references a fund that no longer exists).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
