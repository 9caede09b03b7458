package service

import (
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// FundService handles fund-related business logic operations.
type FundService struct {
	fundRepo *repository.FundRepository
}

// NewFundService creates a new FundService with the provided repository dependencies.
func NewFundService(fundRepo *repository.FundRepository) *FundService {
	return &FundService{fundRepo: fundRepo}
}

// GetAllFunds retrieves all funds including inactive ones.
func (s *FundService) GetAllFunds() ([]model.Fund, error) {
	return s.fundRepo.GetFunds(false)
}

// GetFund retrieves a single fund by ISIN.
func (s *FundService) GetFund(isin string) (model.Fund, error) {
	return s.fundRepo.GetFund(isin)
}

// FundStats is the fund universe overview shown on the landing page.
type FundStats struct {
	TotalFunds       int `json:"totalFunds"`
	ActiveFunds      int `json:"activeFunds"`
	UniqueIndexIsins int `json:"uniqueIndexIsins"`
}

// GetFundStats computes counts over the fund universe: total funds, active
// funds, and distinct target-weight indices.
func (s *FundService) GetFundStats() (FundStats, error) {
	funds, err := s.fundRepo.GetFunds(false)
	if err != nil {
		return FundStats{}, err
	}

	stats := FundStats{TotalFunds: len(funds)}
	indices := make(map[string]struct{})
	for _, f := range funds {
		if f.Status == model.StatusActive {
			stats.ActiveFunds++
		}
		indices[f.IndexIsin] = struct{}{}
	}
	stats.UniqueIndexIsins = len(indices)

	return stats, nil
}
