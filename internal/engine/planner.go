package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// Mode selects how a generation run turns net flow and target weights into
// per-fund deltas. It is a closed set; ParseMode rejects anything else.
type Mode int

const (
	// ModeCash distributes the net flow pro-rata across the target-weighted
	// funds without touching the relative sizes of existing holdings.
	ModeCash Mode = iota

	// ModeRebalance trades every fund to its target value. The net flow is
	// folded into the value base before targets are computed, so the
	// rebalance trades themselves carry the flow.
	ModeRebalance

	// ModeBoth is handled identically to ModeRebalance: the flow already
	// folds into the target-value base, so there is nothing extra to
	// distribute. Kept as a distinct mode because the dealing desk requests
	// it by name and the trade notes should say which path produced a trade.
	ModeBoth
)

// ParseMode maps the request-level trade type onto an engine mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case model.ModeCash:
		return ModeCash, nil
	case model.ModeRebalance:
		return ModeRebalance, nil
	case model.ModeBoth:
		return ModeBoth, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTradeMode, s)
	}
}

// String returns the request-level name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCash:
		return model.ModeCash
	case ModeRebalance:
		return model.ModeRebalance
	case ModeBoth:
		return model.ModeBoth
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// deltaEpsilon suppresses trades that only exist because of floating point
// noise in the target arithmetic.
const deltaEpsilon = 1e-9

// plan computes the unconstrained signed delta amount per fund ISIN.
//
// Target weights are keyed by index ISIN; each registry fund is matched to a
// weight through its own index ISIN. Funds currently held but absent from the
// target set are full redemption candidates under Rebalance/Both. Cash is the
// residual and never receives a delta.
func plan(snap Snapshot, funds TermsRegistry, weights map[string]float64, netFlow float64, mode Mode, tradeDate time.Time) (map[string]float64, error) {
	totalValue := snap.TotalValue(tradeDate)

	// The portfolio cannot redeem more than it holds.
	if netFlow < 0 && math.Abs(netFlow) > totalValue {
		return nil, fmt.Errorf("%w: flow %.2f against portfolio value %.2f",
			apperrors.ErrExcessiveRedemption, netFlow, totalValue)
	}

	// Every target index must resolve to at least one active fund; anything
	// else is missing reference data and aborts the run. When several funds
	// track the same index the weight is split evenly between them, keeping
	// the portfolio's total targeted exposure at the requested weight.
	targeted := make(map[string]float64) // fund ISIN -> weight percent
	for indexIsin, weight := range weights {
		isins := funds.byIndexIsin(indexIsin)
		if len(isins) == 0 {
			return nil, fmt.Errorf("%w: no active fund tracks index %s", apperrors.ErrFundNotFound, indexIsin)
		}
		share := weight / float64(len(isins))
		for _, isin := range isins {
			targeted[isin] += share
		}
	}

	switch mode {
	case ModeCash:
		return planCash(targeted, netFlow), nil
	case ModeRebalance, ModeBoth:
		return planRebalance(snap, targeted, totalValue, netFlow, tradeDate), nil
	default:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidTradeMode, mode)
	}
}

// planCash allocates the net flow pro-rata to each target-weighted fund:
// delta = netFlow * weight / 100. Funds outside the target set are left
// untouched.
func planCash(targeted map[string]float64, netFlow float64) map[string]float64 {
	deltas := make(map[string]float64, len(targeted))
	for isin, weight := range targeted {
		delta := netFlow * weight / 100
		if math.Abs(delta) > deltaEpsilon {
			deltas[isin] = delta
		}
	}
	return deltas
}

// planRebalance trades every fund in the union of current holdings and the
// target set to its target value: delta = (V + netFlow) * weight/100 - current.
// Held funds with no target weight get a target of zero, making them full
// redemption candidates.
func planRebalance(snap Snapshot, targeted map[string]float64, totalValue, netFlow float64, tradeDate time.Time) map[string]float64 {
	base := totalValue + netFlow

	union := make(map[string]struct{}, len(targeted))
	for isin := range targeted {
		union[isin] = struct{}{}
	}
	for _, isin := range snap.heldIsins(tradeDate) {
		union[isin] = struct{}{}
	}

	deltas := make(map[string]float64, len(union))
	for isin := range union {
		targetValue := base * targeted[isin] / 100
		delta := targetValue - snap.CurrentValue(isin, tradeDate)
		if math.Abs(delta) > deltaEpsilon {
			deltas[isin] = delta
		}
	}
	return deltas
}
