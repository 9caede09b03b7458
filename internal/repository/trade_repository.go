package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// TradeRepository provides data access methods for the trade_item table, the
// persistent blotter of generated trades. Generation runs insert their whole
// batch inside one transaction via WithTx.
type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a copy of the repository that executes inside the given transaction.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{db: r.db, tx: tx}
}

func (r *TradeRepository) querier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTrade creates one trade line item.
func (r *TradeRepository) InsertTrade(t model.TradeItem) error {
	_, err := r.querier().Exec(`
		INSERT INTO trade_item (id, account_number, isin, notice_date, trade_date,
			settlement_date, traded_amount, traded_shares, trade_note, breaches, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.AccountNumber,
		t.Isin,
		FormatDate(t.NoticeDate),
		FormatDate(t.TradeDate),
		FormatDate(t.SettlementDate),
		t.TradedAmount,
		t.TradedShares,
		t.TradeNote,
		t.Breaches,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade item: %w", err)
	}
	return nil
}

// GetTrades retrieves trade items, optionally filtered to one portfolio.
// Results are ordered newest batch first, then by trade date.
func (r *TradeRepository) GetTrades(accountNumber string) ([]model.TradeItem, error) {
	query := `
		SELECT id, account_number, isin, notice_date, trade_date, settlement_date,
		       traded_amount, traded_shares, trade_note, breaches, created_at
		FROM trade_item
	`
	var args []any

	if accountNumber != "" {
		query += ` WHERE account_number = ?`
		args = append(args, accountNumber)
	}
	query += ` ORDER BY created_at DESC, trade_date DESC, id ASC`

	rows, err := r.querier().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_item table: %w", err)
	}
	defer rows.Close()

	trades := []model.TradeItem{}

	for rows.Next() {
		var (
			t                               model.TradeItem
			account, isin                   sql.NullString
			noticeStr, tradeStr, settleStr  string
			createdStr                      string
		)

		err := rows.Scan(
			&t.ID,
			&account,
			&isin,
			&noticeStr,
			&tradeStr,
			&settleStr,
			&t.TradedAmount,
			&t.TradedShares,
			&t.TradeNote,
			&t.Breaches,
			&createdStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade_item table results: %w", err)
		}

		t.AccountNumber = nullableString(account)
		t.Isin = nullableString(isin)

		if t.NoticeDate, err = ParseTime(noticeStr); err != nil {
			return nil, err
		}
		if t.TradeDate, err = ParseTime(tradeStr); err != nil {
			return nil, err
		}
		if t.SettlementDate, err = ParseTime(settleStr); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = ParseTime(createdStr); err != nil {
			return nil, err
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_item table: %w", err)
	}

	return trades, nil
}
