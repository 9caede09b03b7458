package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	AccountNumber        string `json:"accountNumber"`
	Name                 string `json:"name"`
	GuidelineSharesOwned *int   `json:"guidelineSharesOwned,omitempty"`
	GuidelineAssetsOwned *int   `json:"guidelineAssetsOwned,omitempty"`
	GuidelineMaxWeight   *int   `json:"guidelineMaxWeight,omitempty"`
}
