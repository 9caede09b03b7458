package repository

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves portfolios from the database based on filter criteria.
// Returns an empty slice if no portfolios match.
func (s *PortfolioRepository) GetPortfolios(filter model.PortfolioFilter) ([]model.Portfolio, error) {
	query := `
		SELECT account_number, name, status,
		       guideline_shares_owned, guideline_assets_owned, guideline_max_weight
		FROM portfolio
		WHERE 1=1
	`
	var args []any

	if !filter.IncludeInactive {
		query += " AND status = ?"
		args = append(args, model.StatusActive)
	}
	query += " ORDER BY account_number ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves a single portfolio by account number.
func (s *PortfolioRepository) GetPortfolio(accountNumber string) (model.Portfolio, error) {
	row := s.db.QueryRow(`
		SELECT account_number, name, status,
		       guideline_shares_owned, guideline_assets_owned, guideline_max_weight
		FROM portfolio
		WHERE account_number = ?
	`, accountNumber)

	p, err := scanPortfolio(row)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, fmt.Errorf("%w: %s", apperrors.ErrPortfolioNotFound, accountNumber)
	}
	if err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// InsertPortfolio creates a new portfolio row.
func (s *PortfolioRepository) InsertPortfolio(p model.Portfolio) error {
	_, err := s.db.Exec(`
		INSERT INTO portfolio (account_number, name, status,
			guideline_shares_owned, guideline_assets_owned, guideline_max_weight)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		p.AccountNumber,
		p.Name,
		p.Status,
		p.GuidelineSharesOwned,
		p.GuidelineAssetsOwned,
		p.GuidelineMaxWeight,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio %s: %w", p.AccountNumber, err)
	}
	return nil
}

func scanPortfolio(s scanner) (model.Portfolio, error) {
	var (
		p                        model.Portfolio
		shares, assets, maxWeight sql.NullInt64
	)

	err := s.Scan(
		&p.AccountNumber,
		&p.Name,
		&p.Status,
		&shares,
		&assets,
		&maxWeight,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, err
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio table results: %w", err)
	}

	p.GuidelineSharesOwned = nullableInt(shares)
	p.GuidelineAssetsOwned = nullableInt(assets)
	p.GuidelineMaxWeight = nullableInt(maxWeight)

	return p, nil
}
