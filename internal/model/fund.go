package model

// Fund statuses shared with Portfolio.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Fund represents a fund from the database. The ISIN is the identity and is
// immutable once created; IndexIsin links the fund to the target-weight index
// used during rebalancing.
type Fund struct {
	Isin             string
	IndexIsin        string
	Name             string
	Firm             string
	Status           string
	Style            string
	Strategy         string
	FlagRestricted   bool
	FlagLateCutoff   bool
	FlagUnitsTrading bool
	Terms            FundTerms
}

// FundTerms is the trading-terms bundle attached to a fund. Notice and
// settlement values are business days; the subscription minimum is in the
// fund's currency.
type FundTerms struct {
	Rank           int // tie-break priority, smaller = higher, >= 1
	RankAmount     int64
	SubNotice      int
	SubSettlement  int
	SubMinimum     float64
	RedNotice      int
	RedSettlement  int
	CutoffTime     string   // "15:04" wall-clock dealing deadline
	Calendars      []string // named calendars, intersection semantics
	ManagementFee  float64
	PerformanceFee float64
	Currency       string
}
