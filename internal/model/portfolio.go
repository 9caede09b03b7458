package model

// Portfolio represents a portfolio from the database. The account number is
// the identity. Guideline bounds are advisory percentages (1-100) used for
// breach reporting during trade generation, never for rejection.
type Portfolio struct {
	AccountNumber        string `json:"accountNumber"`
	Name                 string `json:"name"`
	Status               string `json:"status"`
	GuidelineSharesOwned *int   `json:"guidelineSharesOwned,omitempty"`
	GuidelineAssetsOwned *int   `json:"guidelineAssetsOwned,omitempty"`
	GuidelineMaxWeight   *int   `json:"guidelineMaxWeight,omitempty"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	IncludeInactive bool
}
