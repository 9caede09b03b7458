package model

import "time"

// IndexData is vendor-supplied fund level data uploaded separately from the
// position files (total assets and shares issued per fund per date). Used by
// the advisory ownership guidelines on Portfolio.
type IndexData struct {
	ID           string
	Isin         *string
	Date         time.Time
	Assets       float64
	SharesIssued float64
}
