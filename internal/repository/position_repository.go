package repository

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Positions are append-only: snapshot ingestion creates them and trade
// generation only ever reads them.
type PositionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a copy of the repository that executes inside the given transaction.
func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{db: r.db, tx: tx}
}

func (r *PositionRepository) querier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetPositionsAsOf retrieves all position lines for a portfolio with a
// valuation date at or before asOf, ordered by valuation date ascending.
// The engine reduces these to the latest line per fund itself.
func (r *PositionRepository) GetPositionsAsOf(accountNumber string, asOf string) ([]model.Position, error) {
	rows, err := r.querier().Query(`
		SELECT id, account_number, isin, flag_cash, value, shares, price, valuation_date
		FROM position
		WHERE account_number = ?
		AND valuation_date <= ?
		ORDER BY valuation_date ASC, id ASC
	`, accountNumber, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var (
			p             model.Position
			account, isin sql.NullString
			dateStr       string
		)

		err := rows.Scan(
			&p.ID,
			&account,
			&isin,
			&p.FlagCash,
			&p.Value,
			&p.Shares,
			&p.Price,
			&dateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		p.AccountNumber = nullableString(account)
		p.Isin = nullableString(isin)
		p.ValuationDate, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse valuation date: %w", err)
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// InsertPosition creates one position snapshot line.
func (r *PositionRepository) InsertPosition(p model.Position) error {
	_, err := r.querier().Exec(`
		INSERT INTO position (id, account_number, isin, flag_cash, value, shares, price, valuation_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.AccountNumber,
		p.Isin,
		p.FlagCash,
		p.Value,
		p.Shares,
		p.Price,
		FormatDate(p.ValuationDate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}
