package model

import "time"

// Trade modes accepted by the generation endpoint.
const (
	ModeCash      = "Cash"
	ModeRebalance = "Rebalance"
	ModeBoth      = "Both"
)

// TradeItem is one generated trade line. TradedAmount is signed: positive is
// a subscription, negative a redemption. Breaches is a semicolon-joined list
// of breach annotations, empty when the trade is clean.
//
// AccountNumber and Isin are nullable for the same reason as on Position:
// retiring reference data must not delete the historical blotter.
type TradeItem struct {
	ID             string
	AccountNumber  *string
	Isin           *string
	NoticeDate     time.Time
	TradeDate      time.Time
	SettlementDate time.Time
	TradedAmount   float64
	TradedShares   float64
	TradeNote      string
	Breaches       string
	CreatedAt      time.Time
}

// TargetWeight pairs an index ISIN with a desired portfolio weight in
// percent. Weights are transient generation input and are not persisted.
type TargetWeight struct {
	IndexIsin string  `json:"indexIsin"`
	Weight    float64 `json:"weight"`
}
