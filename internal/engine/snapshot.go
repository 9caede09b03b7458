package engine

import "time"

// Holding is one line of the portfolio's position snapshot: the holding in a
// single fund, or the cash line. The engine treats holdings as immutable for
// the duration of a run.
type Holding struct {
	Isin          string // empty for cash
	IsCash        bool
	Value         float64
	Shares        float64
	Price         float64
	ValuationDate time.Time
}

// Snapshot is the portfolio's current holdings as supplied to a generation
// run. Multiple valuation dates may be present per fund; the engine always
// works from the latest line at or before the trade date.
type Snapshot struct {
	Holdings []Holding
}

// latest returns the most recent holding per fund (and the cash line) with a
// valuation date at or before asOf.
func (s Snapshot) latest(asOf time.Time) map[string]Holding {
	out := make(map[string]Holding)
	for _, h := range s.Holdings {
		if h.ValuationDate.After(asOf) {
			continue
		}
		key := h.Isin
		if h.IsCash {
			key = cashKey
		}
		if prev, ok := out[key]; !ok || h.ValuationDate.After(prev.ValuationDate) {
			out[key] = h
		}
	}
	return out
}

// cashKey indexes the cash line in the latest-holding map. Cash positions
// carry no ISIN so they need a reserved key.
const cashKey = "\x00cash"

// TotalValue sums the latest holding values including cash. This is the V
// that target weights are applied to.
func (s Snapshot) TotalValue(asOf time.Time) float64 {
	var total float64
	for _, h := range s.latest(asOf) {
		total += h.Value
	}
	return total
}

// CurrentValue returns the latest value held in one fund, zero when the fund
// is not held.
func (s Snapshot) CurrentValue(isin string, asOf time.Time) float64 {
	if h, ok := s.latest(asOf)[isin]; ok {
		return h.Value
	}
	return 0
}

// PriceAsOf returns the fund's price from the most recent snapshot line at
// or before date that carries a usable price. Lines without a positive price
// are not price observations and are skipped. The second return is false
// when no usable line exists.
func (s Snapshot) PriceAsOf(isin string, date time.Time) (float64, bool) {
	var (
		price float64
		when  time.Time
		found bool
	)
	for _, h := range s.Holdings {
		if h.IsCash || h.Isin != isin || h.Price <= 0 || h.ValuationDate.After(date) {
			continue
		}
		if !found || h.ValuationDate.After(when) {
			price = h.Price
			when = h.ValuationDate
			found = true
		}
	}
	return price, found
}

// heldIsins returns the ISINs of all non-cash funds present in the latest
// snapshot lines.
func (s Snapshot) heldIsins(asOf time.Time) []string {
	var isins []string
	for key, h := range s.latest(asOf) {
		if !h.IsCash && key != cashKey {
			isins = append(isins, key)
		}
	}
	return isins
}
