package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithAccountNumber("ACC-42").
//	    WithGuidelineMaxWeight(40).
//	    Build(t, db)
type PortfolioBuilder struct {
	AccountNumber        string
	Name                 string
	Status               string
	GuidelineSharesOwned *int
	GuidelineAssetsOwned *int
	GuidelineMaxWeight   *int
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		AccountNumber: MakeAccountNumber(),
		Name:          MakePortfolioName("Test Portfolio"),
		Status:        model.StatusActive,
	}
}

// WithAccountNumber sets a custom account number.
func (b *PortfolioBuilder) WithAccountNumber(accountNumber string) *PortfolioBuilder {
	b.AccountNumber = accountNumber
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Inactive marks the portfolio as inactive.
func (b *PortfolioBuilder) Inactive() *PortfolioBuilder {
	b.Status = model.StatusInactive
	return b
}

// WithGuidelineSharesOwned sets the shares-owned guideline percentage.
func (b *PortfolioBuilder) WithGuidelineSharesOwned(pct int) *PortfolioBuilder {
	b.GuidelineSharesOwned = &pct
	return b
}

// WithGuidelineAssetsOwned sets the assets-owned guideline percentage.
func (b *PortfolioBuilder) WithGuidelineAssetsOwned(pct int) *PortfolioBuilder {
	b.GuidelineAssetsOwned = &pct
	return b
}

// WithGuidelineMaxWeight sets the max-weight guideline percentage.
func (b *PortfolioBuilder) WithGuidelineMaxWeight(pct int) *PortfolioBuilder {
	b.GuidelineMaxWeight = &pct
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (account_number, name, status, guideline_shares_owned, guideline_assets_owned, guideline_max_weight)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.AccountNumber, b.Name, b.Status,
		b.GuidelineSharesOwned, b.GuidelineAssetsOwned, b.GuidelineMaxWeight)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		AccountNumber:        b.AccountNumber,
		Name:                 b.Name,
		Status:               b.Status,
		GuidelineSharesOwned: b.GuidelineSharesOwned,
		GuidelineAssetsOwned: b.GuidelineAssetsOwned,
		GuidelineMaxWeight:   b.GuidelineMaxWeight,
	}
}

// CreatePortfolio creates a portfolio with the given account number and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "ACC-1001")
func CreatePortfolio(t *testing.T, db *sql.DB, accountNumber string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithAccountNumber(accountNumber).Build(t, db)
}

// FundBuilder provides a fluent interface for creating test funds with
// trading terms.
//
// Example usage:
//
//	fund := testutil.NewFund().
//	    WithISIN("LU0000000017").
//	    WithIndexISIN("US0000000090").
//	    WithNotice(2, 2).
//	    Build(t, db)
type FundBuilder struct {
	ISIN      string
	IndexISIN string
	Name      string
	Firm      string
	Status    string
	Style     string
	Strategy  string
	Terms     model.FundTerms
}

// NewFund creates a FundBuilder with sensible defaults: same-day notice,
// T+1 settlement, no minimum, US calendar.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ISIN:      MakeISIN("LU"),
		IndexISIN: MakeISIN("US"),
		Name:      MakeFundName("Test Fund"),
		Firm:      "Test Capital",
		Status:    model.StatusActive,
		Style:     "Equity",
		Strategy:  "Long/Short",
		Terms: model.FundTerms{
			Rank:          1,
			SubNotice:     0,
			SubSettlement: 1,
			SubMinimum:    0,
			RedNotice:     0,
			RedSettlement: 1,
			CutoffTime:    "17:30",
			Calendars:     []string{"US"},
			Currency:      "USD",
		},
	}
}

// WithISIN sets a custom ISIN.
func (b *FundBuilder) WithISIN(isin string) *FundBuilder {
	b.ISIN = isin
	return b
}

// WithIndexISIN sets the tracked index ISIN.
func (b *FundBuilder) WithIndexISIN(isin string) *FundBuilder {
	b.IndexISIN = isin
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithRank sets the constraint processing rank.
func (b *FundBuilder) WithRank(rank int) *FundBuilder {
	b.Terms.Rank = rank
	return b
}

// WithNotice sets the subscription and redemption notice periods in business days.
func (b *FundBuilder) WithNotice(sub, red int) *FundBuilder {
	b.Terms.SubNotice = sub
	b.Terms.RedNotice = red
	return b
}

// WithSettlement sets the subscription and redemption settlement periods in business days.
func (b *FundBuilder) WithSettlement(sub, red int) *FundBuilder {
	b.Terms.SubSettlement = sub
	b.Terms.RedSettlement = red
	return b
}

// WithSubMinimum sets the minimum subscription amount.
func (b *FundBuilder) WithSubMinimum(minimum float64) *FundBuilder {
	b.Terms.SubMinimum = minimum
	return b
}

// WithCutoff sets the order cutoff time (HH:MM).
func (b *FundBuilder) WithCutoff(cutoff string) *FundBuilder {
	b.Terms.CutoffTime = cutoff
	return b
}

// WithCalendars sets the calendars the fund's dates must respect.
func (b *FundBuilder) WithCalendars(calendars ...string) *FundBuilder {
	b.Terms.Calendars = calendars
	return b
}

// Inactive marks the fund as inactive.
func (b *FundBuilder) Inactive() *FundBuilder {
	b.Status = model.StatusInactive
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (
			isin, index_isin, name, firm, status, style, strategy,
			flag_restricted, flag_late_cutoff, flag_units_trading,
			terms_rank, terms_rank_amount, terms_sub_notice, terms_sub_settlement,
			terms_sub_minimum, terms_red_notice, terms_red_settlement,
			terms_cutoff_time, terms_calendars, terms_man_fee, terms_perf_fee, terms_currency
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ISIN, b.IndexISIN, b.Name, b.Firm, b.Status, b.Style, b.Strategy,
		false, false, false,
		b.Terms.Rank, b.Terms.RankAmount, b.Terms.SubNotice, b.Terms.SubSettlement,
		b.Terms.SubMinimum, b.Terms.RedNotice, b.Terms.RedSettlement,
		b.Terms.CutoffTime, strings.Join(b.Terms.Calendars, ","),
		b.Terms.ManagementFee, b.Terms.PerformanceFee, b.Terms.Currency)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		Isin:      b.ISIN,
		IndexIsin: b.IndexISIN,
		Name:      b.Name,
		Firm:      b.Firm,
		Status:    b.Status,
		Style:     b.Style,
		Strategy:  b.Strategy,
		Terms:     b.Terms,
	}
}

// PositionBuilder provides a fluent interface for creating position snapshot lines.
type PositionBuilder struct {
	ID            string
	AccountNumber string
	ISIN          string
	FlagCash      bool
	Value         float64
	Shares        float64
	Price         float64
	ValuationDate time.Time
}

// NewPosition creates a PositionBuilder for a fund holding.
func NewPosition(accountNumber, isin string) *PositionBuilder {
	return &PositionBuilder{
		ID:            MakeID(),
		AccountNumber: accountNumber,
		ISIN:          isin,
		Value:         10000.0,
		Shares:        100.0,
		Price:         100.0,
		ValuationDate: time.Now().UTC(),
	}
}

// NewCashPosition creates a PositionBuilder for a cash line.
func NewCashPosition(accountNumber string) *PositionBuilder {
	return &PositionBuilder{
		ID:            MakeID(),
		AccountNumber: accountNumber,
		FlagCash:      true,
		Value:         10000.0,
		ValuationDate: time.Now().UTC(),
	}
}

// WithValue sets the market value.
func (b *PositionBuilder) WithValue(value float64) *PositionBuilder {
	b.Value = value
	return b
}

// WithShares sets the share count.
func (b *PositionBuilder) WithShares(shares float64) *PositionBuilder {
	b.Shares = shares
	return b
}

// WithPrice sets the unit price.
func (b *PositionBuilder) WithPrice(price float64) *PositionBuilder {
	b.Price = price
	return b
}

// WithValuationDate sets the snapshot date.
func (b *PositionBuilder) WithValuationDate(date time.Time) *PositionBuilder {
	b.ValuationDate = date
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	query := `
		INSERT INTO position (id, account_number, isin, flag_cash, value, shares, price, valuation_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var isin any
	if b.ISIN != "" {
		isin = b.ISIN
	}

	_, err := db.Exec(query, b.ID, b.AccountNumber, isin, b.FlagCash,
		b.Value, b.Shares, b.Price, b.ValuationDate.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	position := model.Position{
		ID:            b.ID,
		AccountNumber: &b.AccountNumber,
		FlagCash:      b.FlagCash,
		Value:         b.Value,
		Shares:        b.Shares,
		Price:         b.Price,
		ValuationDate: b.ValuationDate,
	}
	if b.ISIN != "" {
		position.Isin = &b.ISIN
	}
	return position
}

// CreateCalendarDate inserts one holiday into a named calendar.
//
// Example usage:
//
//	testutil.CreateCalendarDate(t, db, "US", testutil.Date(2026, 4, 3))
func CreateCalendarDate(t *testing.T, db *sql.DB, calendar string, date time.Time) {
	t.Helper()

	query := `
		INSERT INTO calendar_date (id, calendar, date)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, MakeID(), calendar, date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create calendar date: %v", err)
	}
}

// EnsureCalendar makes a calendar known without adding holidays to it. A
// calendar with only weekend rules is represented by a far-past sentinel
// holiday, which never lands on a tested date.
func EnsureCalendar(t *testing.T, db *sql.DB, calendar string) {
	t.Helper()
	CreateCalendarDate(t, db, calendar, Date(1900, 1, 1))
}

// Date builds a UTC midnight timestamp, which is how all trading dates are
// stored.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
