// Package engine generates per-fund trade instructions from a portfolio's
// current holdings, a set of target fund weights, a net cash flow and a trade
// mode, respecting each fund's redemption/subscription terms, notice periods,
// settlement lags and cutoff rules.
//
// The engine is pure: all reference data (positions, fund terms, calendars)
// is snapshotted into the Input before Generate runs, and nothing is written
// back. Constraint violations are flagged as breaches on the emitted trades
// rather than silently corrected, and per-fund fatal conditions are isolated
// so one bad fund does not abort the whole batch.
package engine

import (
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
)

// Input is the full, immutable data set for one generation run.
type Input struct {
	AccountNumber string
	TradeDate     time.Time
	AsOf          time.Time // request timestamp; drives notice and cutoff checks
	NetFlow       float64
	Mode          Mode
	TargetWeights map[string]float64 // index ISIN -> weight percent
	Snapshot      Snapshot
	Funds         TermsRegistry
	Calendars     Calendars

	// GuidelineMaxWeight is the portfolio's advisory max single-fund weight,
	// nil when the portfolio has none.
	GuidelineMaxWeight *int
}

// Result is the outcome of one generation run: the constrained trade
// candidates in rank order plus the funds that failed individually.
type Result struct {
	Trades   []Candidate
	Failures []FundFailure
}

// Generate plans unconstrained deltas and pushes them through the constraint
// pipeline.
//
// Run-fatal errors (excessive redemption, unknown fund, unknown calendar on
// reference-data resolution) return a non-nil error and no Result; nothing
// should be persisted in that case. Per-fund failures such as a missing price
// come back inside the Result next to the trades that did succeed, and the
// caller decides whether a partial batch is acceptable.
func Generate(in Input) (Result, error) {
	deltas, err := plan(in.Snapshot, in.Funds, in.TargetWeights, in.NetFlow, in.Mode, in.TradeDate)
	if err != nil {
		return Result{}, err
	}

	// Resolve every referenced calendar before touching any fund: missing
	// calendar data is a reference-data problem and aborts the run, not just
	// one fund.
	if err := checkCalendars(in.Funds, in.Calendars, deltas); err != nil {
		return Result{}, err
	}

	trades, failures := adjust(in, deltas)
	return Result{Trades: trades, Failures: failures}, nil
}

// checkCalendars verifies that every calendar named by a fund with a pending
// delta has registered dates.
func checkCalendars(funds TermsRegistry, calendars Calendars, deltas map[string]float64) error {
	for isin := range deltas {
		fund, err := funds.Lookup(isin)
		if err != nil {
			return err
		}
		for _, name := range fund.Terms.Calendars {
			if !calendars.Known(name) {
				return fmt.Errorf("%w: %s (fund %s)", apperrors.ErrCalendarNotFound, name, isin)
			}
		}
	}
	return nil
}
