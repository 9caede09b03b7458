package service

import (
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
	}
}

// GetAllPortfolios retrieves all portfolios including inactive ones.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(model.PortfolioFilter{IncludeInactive: true})
}

// GetPortfolio retrieves a single portfolio by account number.
func (s *PortfolioService) GetPortfolio(accountNumber string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolio(accountNumber)
}

// GetPositions retrieves a portfolio's position lines valued at or before
// asOf. The portfolio is looked up first so an unknown account number comes
// back as ErrPortfolioNotFound rather than an empty slice.
func (s *PortfolioService) GetPositions(accountNumber string, asOf time.Time) ([]model.Position, error) {
	if _, err := s.portfolioRepo.GetPortfolio(accountNumber); err != nil {
		return nil, err
	}
	return s.positionRepo.GetPositionsAsOf(accountNumber, repository.FormatDate(asOf))
}

// CreatePortfolio registers a new portfolio.
func (s *PortfolioService) CreatePortfolio(p model.Portfolio) error {
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	return s.portfolioRepo.InsertPortfolio(p)
}
