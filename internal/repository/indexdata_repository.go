package repository

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// IndexDataRepository provides data access methods for the index_data table
// (vendor-supplied fund assets and shares issued, uploaded separately from
// the position files).
type IndexDataRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewIndexDataRepository creates a new IndexDataRepository with the provided database connection.
func NewIndexDataRepository(db *sql.DB) *IndexDataRepository {
	return &IndexDataRepository{db: db}
}

// WithTx returns a copy of the repository that executes inside the given transaction.
func (r *IndexDataRepository) WithTx(tx *sql.Tx) *IndexDataRepository {
	return &IndexDataRepository{db: r.db, tx: tx}
}

func (r *IndexDataRepository) querier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertIndexData creates one vendor data row.
func (r *IndexDataRepository) InsertIndexData(d model.IndexData) error {
	_, err := r.querier().Exec(`
		INSERT INTO index_data (id, isin, date, assets, shares_issued)
		VALUES (?, ?, ?, ?, ?)
	`,
		d.ID,
		d.Isin,
		FormatDate(d.Date),
		d.Assets,
		d.SharesIssued,
	)
	if err != nil {
		return fmt.Errorf("failed to insert index data: %w", err)
	}
	return nil
}

// GetLatestForFund returns the most recent vendor data row for a fund, or
// sql.ErrNoRows wrapped when none exists.
func (r *IndexDataRepository) GetLatestForFund(isin string) (model.IndexData, error) {
	row := r.querier().QueryRow(`
		SELECT id, isin, date, assets, shares_issued
		FROM index_data
		WHERE isin = ?
		ORDER BY date DESC
		LIMIT 1
	`, isin)

	var (
		d       model.IndexData
		isinCol sql.NullString
		dateStr string
	)
	err := row.Scan(&d.ID, &isinCol, &dateStr, &d.Assets, &d.SharesIssued)
	if err != nil {
		return model.IndexData{}, fmt.Errorf("failed to query index_data table: %w", err)
	}

	d.Isin = nullableString(isinCol)
	if d.Date, err = ParseTime(dateStr); err != nil {
		return model.IndexData{}, err
	}
	return d, nil
}
