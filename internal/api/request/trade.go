package request

// TargetWeight assigns a percentage of portfolio value to an index.
type TargetWeight struct {
	IndexIsin string  `json:"indexIsin"`
	Weight    float64 `json:"weight"`
}

// GenerateTradesRequest represents the request body for a single-portfolio
// generation run.
type GenerateTradesRequest struct {
	AccountNumber string         `json:"accountNumber"`
	TradeDate     string         `json:"tradeDate"`
	NetFlow       float64        `json:"netFlow"`
	Mode          string         `json:"mode"`
	TargetWeights []TargetWeight `json:"targetWeights"`
}

// GenerateAllTradesRequest represents the request body for a sweep across all
// active portfolios. The net flow applies per portfolio.
type GenerateAllTradesRequest struct {
	TradeDate     string         `json:"tradeDate"`
	NetFlow       float64        `json:"netFlow"`
	Mode          string         `json:"mode"`
	TargetWeights []TargetWeight `json:"targetWeights"`
}
