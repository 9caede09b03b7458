package service

import (
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// TradeService handles read access to the generated trade blotter.
type TradeService struct {
	tradeRepo *repository.TradeRepository
}

// NewTradeService creates a new TradeService with the provided repository dependencies.
func NewTradeService(tradeRepo *repository.TradeRepository) *TradeService {
	return &TradeService{tradeRepo: tradeRepo}
}

// GetTrades retrieves trade items. With an empty account number the whole
// blotter is returned.
func (s *TradeService) GetTrades(accountNumber string) ([]model.TradeItem, error) {
	return s.tradeRepo.GetTrades(accountNumber)
}
