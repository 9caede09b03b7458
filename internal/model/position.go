package model

import "time"

// Position is a dated snapshot of a portfolio holding in one fund, or in
// cash. Positions are created by snapshot ingestion and are read-only to the
// trade generation engine: a run only reads the latest snapshot at or before
// the trade date and never mutates it.
//
// Isin is nullable because a retired fund must not silently orphan its
// historical positions; cash rows carry no fund reference either.
type Position struct {
	ID            string
	AccountNumber *string
	Isin          *string
	FlagCash      bool
	Value         float64
	Shares        float64
	Price         float64
	ValuationDate time.Time
}
