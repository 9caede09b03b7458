package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// fundColumns is the full select list for the fund table, shared by the
// single- and multi-row queries so scans stay in one shape.
const fundColumns = `isin, index_isin, name, firm, status, style, strategy,
	flag_restricted, flag_late_cutoff, flag_units_trading,
	terms_rank, terms_rank_amount,
	terms_sub_notice, terms_sub_settlement, terms_sub_minimum,
	terms_red_notice, terms_red_settlement,
	terms_cutoff_time, terms_calendars, terms_man_fee, terms_perf_fee, terms_currency`

// FundRepository provides data access methods for the fund table, including
// the trading-terms bundle the generation engine snapshots at run start.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// WithTx returns a copy of the repository that executes inside the given transaction.
func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{db: r.db, tx: tx}
}

func (r *FundRepository) querier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetFunds retrieves funds from the database. With activeOnly set, inactive
// funds are filtered out. Returns an empty slice when nothing matches.
func (r *FundRepository) GetFunds(activeOnly bool) ([]model.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM fund`
	var args []any

	if activeOnly {
		query += ` WHERE status = ?`
		args = append(args, model.StatusActive)
	}
	query += ` ORDER BY isin ASC`

	rows, err := r.querier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := []model.Fund{}
	for rows.Next() {
		fund, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

// GetFund retrieves a single fund by ISIN.
func (r *FundRepository) GetFund(isin string) (model.Fund, error) {
	row := r.querier().QueryRow(`SELECT `+fundColumns+` FROM fund WHERE isin = ?`, isin)

	fund, err := scanFund(row)
	if err == sql.ErrNoRows {
		return model.Fund{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, isin)
	}
	if err != nil {
		return model.Fund{}, err
	}
	return fund, nil
}

// UpsertFund inserts a fund or replaces an existing row with the same ISIN.
// Fund master imports are full-row replacements; the ISIN itself never changes.
func (r *FundRepository) UpsertFund(fund model.Fund) error {
	query := `
		INSERT INTO fund (` + fundColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(isin) DO UPDATE SET
			index_isin = excluded.index_isin,
			name = excluded.name,
			firm = excluded.firm,
			status = excluded.status,
			style = excluded.style,
			strategy = excluded.strategy,
			flag_restricted = excluded.flag_restricted,
			flag_late_cutoff = excluded.flag_late_cutoff,
			flag_units_trading = excluded.flag_units_trading,
			terms_rank = excluded.terms_rank,
			terms_rank_amount = excluded.terms_rank_amount,
			terms_sub_notice = excluded.terms_sub_notice,
			terms_sub_settlement = excluded.terms_sub_settlement,
			terms_sub_minimum = excluded.terms_sub_minimum,
			terms_red_notice = excluded.terms_red_notice,
			terms_red_settlement = excluded.terms_red_settlement,
			terms_cutoff_time = excluded.terms_cutoff_time,
			terms_calendars = excluded.terms_calendars,
			terms_man_fee = excluded.terms_man_fee,
			terms_perf_fee = excluded.terms_perf_fee,
			terms_currency = excluded.terms_currency
	`

	_, err := r.querier().Exec(query,
		fund.Isin,
		fund.IndexIsin,
		fund.Name,
		fund.Firm,
		fund.Status,
		fund.Style,
		fund.Strategy,
		fund.FlagRestricted,
		fund.FlagLateCutoff,
		fund.FlagUnitsTrading,
		fund.Terms.Rank,
		fund.Terms.RankAmount,
		fund.Terms.SubNotice,
		fund.Terms.SubSettlement,
		fund.Terms.SubMinimum,
		fund.Terms.RedNotice,
		fund.Terms.RedSettlement,
		fund.Terms.CutoffTime,
		strings.Join(fund.Terms.Calendars, ","),
		fund.Terms.ManagementFee,
		fund.Terms.PerformanceFee,
		fund.Terms.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund %s: %w", fund.Isin, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFund(s scanner) (model.Fund, error) {
	var (
		f         model.Fund
		calendars string
	)

	err := s.Scan(
		&f.Isin,
		&f.IndexIsin,
		&f.Name,
		&f.Firm,
		&f.Status,
		&f.Style,
		&f.Strategy,
		&f.FlagRestricted,
		&f.FlagLateCutoff,
		&f.FlagUnitsTrading,
		&f.Terms.Rank,
		&f.Terms.RankAmount,
		&f.Terms.SubNotice,
		&f.Terms.SubSettlement,
		&f.Terms.SubMinimum,
		&f.Terms.RedNotice,
		&f.Terms.RedSettlement,
		&f.Terms.CutoffTime,
		&calendars,
		&f.Terms.ManagementFee,
		&f.Terms.PerformanceFee,
		&f.Terms.Currency,
	)
	if err == sql.ErrNoRows {
		return model.Fund{}, err
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to scan fund table results: %w", err)
	}

	if calendars != "" {
		for _, name := range strings.Split(calendars, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				f.Terms.Calendars = append(f.Terms.Calendars, trimmed)
			}
		}
	}

	return f, nil
}
