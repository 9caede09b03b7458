package service

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/engine"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// GenerationService orchestrates trade generation runs: it snapshots the
// reference data a run needs (positions, fund terms, calendars), hands the
// snapshot to the engine, and persists the emitted batch atomically.
//
// Runs for different portfolios may execute in parallel; runs for the same
// account number are rejected while one is in flight, because interleaved
// runs could read inconsistent position snapshots.
type GenerationService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	fundRepo      *repository.FundRepository
	calendarRepo  *repository.CalendarRepository
	tradeRepo     *repository.TradeRepository

	mu       sync.Mutex
	inFlight map[string]struct{} // account numbers with a running generation
}

// NewGenerationService creates a new GenerationService with the provided repository dependencies.
func NewGenerationService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	fundRepo *repository.FundRepository,
	calendarRepo *repository.CalendarRepository,
	tradeRepo *repository.TradeRepository,
) *GenerationService {
	return &GenerationService{
		db:            db,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		fundRepo:      fundRepo,
		calendarRepo:  calendarRepo,
		tradeRepo:     tradeRepo,
		inFlight:      make(map[string]struct{}),
	}
}

// GenerationRequest are the validated inputs for one generation run.
type GenerationRequest struct {
	AccountNumber string
	TradeDate     time.Time
	NetFlow       float64
	Mode          string
	TargetWeights []model.TargetWeight
}

// FundFailureInfo reports one fund whose trade could not be produced.
type FundFailureInfo struct {
	Isin   string `json:"isin"`
	Reason string `json:"reason"`
}

// GenerationResult is the outcome of one run: the persisted trades plus the
// per-fund failures the caller has to review.
type GenerationResult struct {
	AccountNumber string            `json:"accountNumber"`
	Trades        []model.TradeItem `json:"trades"`
	Failures      []FundFailureInfo `json:"failures"`
}

// Generate runs trade generation for one portfolio and persists the emitted
// batch in a single transaction: either every trade of the run is recorded or
// none is. Re-running with the same inputs produces a new batch; dedup is the
// caller's concern.
func (s *GenerationService) Generate(req GenerationRequest) (*GenerationResult, error) {
	return s.GenerateAt(req, time.Now().UTC())
}

// GenerateAt is Generate with a pinned as-of timestamp, which drives the
// notice and cutoff checks. Exposed for deterministic tests.
func (s *GenerationService) GenerateAt(req GenerationRequest, asOf time.Time) (*GenerationResult, error) {
	if err := s.acquire(req.AccountNumber); err != nil {
		return nil, err
	}
	defer s.release(req.AccountNumber)
	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.portfolioRepo.GetPortfolio(req.AccountNumber)
	if err != nil {
		return nil, err
	}

	input, err := s.buildInput(portfolio, req, mode, asOf)
	if err != nil {
		return nil, err
	}

	result, err := engine.Generate(*input)
	if err != nil {
		return nil, err
	}

	trades, err := s.persistBatch(portfolio.AccountNumber, result.Trades)
	if err != nil {
		return nil, err
	}

	failures := make([]FundFailureInfo, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = FundFailureInfo{Isin: f.Isin, Reason: f.Err.Error()}
	}

	log.Printf("generated %d trades (%d failures) for portfolio %s, mode %s",
		len(trades), len(failures), portfolio.AccountNumber, req.Mode)

	return &GenerationResult{
		AccountNumber: portfolio.AccountNumber,
		Trades:        trades,
		Failures:      failures,
	}, nil
}

// buildInput loads the read-only reference data for a run. All I/O happens
// here, once; the engine itself works purely on the snapshot.
func (s *GenerationService) buildInput(portfolio model.Portfolio, req GenerationRequest, mode engine.Mode, asOf time.Time) (*engine.Input, error) {
	positions, err := s.positionRepo.GetPositionsAsOf(portfolio.AccountNumber, repository.FormatDate(req.TradeDate))
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoPositions, portfolio.AccountNumber)
	}

	holdings := make([]engine.Holding, 0, len(positions))
	for _, p := range positions {
		h := engine.Holding{
			IsCash:        p.FlagCash,
			Value:         p.Value,
			Shares:        p.Shares,
			Price:         p.Price,
			ValuationDate: p.ValuationDate,
		}
		if p.Isin != nil {
			h.Isin = *p.Isin
		}
		if !h.IsCash && h.Isin == "" {
			// A non-cash line whose fund was retired can no longer be
			// traded or valued against terms.
			return nil, fmt.Errorf("%w: position %s has no fund reference", apperrors.ErrDataInconsistency, p.ID)
		}
		holdings = append(holdings, h)
	}

	// The registry carries retired funds too: a portfolio still holding one
	// must be able to redeem out of it. Targeting only matches active funds.
	funds, err := s.fundRepo.GetFunds(false)
	if err != nil {
		return nil, err
	}
	registry := make(engine.TermsRegistry, len(funds))
	for _, f := range funds {
		registry[f.Isin] = f
	}

	calendarDates, err := s.calendarRepo.GetAllCalendars()
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64, len(req.TargetWeights))
	for _, w := range req.TargetWeights {
		weights[w.IndexIsin] = w.Weight
	}

	return &engine.Input{
		AccountNumber:      portfolio.AccountNumber,
		TradeDate:          req.TradeDate,
		AsOf:               asOf,
		NetFlow:            req.NetFlow,
		Mode:               mode,
		TargetWeights:      weights,
		Snapshot:           engine.Snapshot{Holdings: holdings},
		Funds:              registry,
		Calendars:          engine.NewCalendars(calendarDates),
		GuidelineMaxWeight: portfolio.GuidelineMaxWeight,
	}, nil
}

// persistBatch writes all candidates of one run inside a single transaction.
func (s *GenerationService) persistBatch(accountNumber string, candidates []engine.Candidate) ([]model.TradeItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin trade batch transaction: %w", err)
	}
	//nolint:errcheck // Rollback after commit is a no-op.
	defer tx.Rollback()

	tradeRepo := s.tradeRepo.WithTx(tx)
	now := time.Now().UTC()

	trades := make([]model.TradeItem, 0, len(candidates))
	for _, c := range candidates {
		account := accountNumber
		isin := c.Isin

		breaches := make([]string, len(c.Breaches))
		for i, b := range c.Breaches {
			breaches[i] = string(b)
		}

		trade := model.TradeItem{
			ID:             uuid.New().String(),
			AccountNumber:  &account,
			Isin:           &isin,
			NoticeDate:     c.NoticeDate,
			TradeDate:      c.TradeDate,
			SettlementDate: c.SettlementDate,
			TradedAmount:   c.Amount,
			TradedShares:   c.Shares,
			TradeNote:      c.Note,
			Breaches:       strings.Join(breaches, ";"),
			CreatedAt:      now,
		}
		if err := tradeRepo.InsertTrade(trade); err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade batch: %w", err)
	}

	return trades, nil
}

// PortfolioRunResult is one portfolio's outcome from a GenerateAll sweep.
type PortfolioRunResult struct {
	AccountNumber string            `json:"accountNumber"`
	Result        *GenerationResult `json:"result,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// GenerateAll runs the same request against every active portfolio in
// parallel. Each portfolio still gets its own serialized, atomic run; one
// portfolio's failure does not cancel the others, so errors are reported per
// portfolio in the result.
func (s *GenerationService) GenerateAll(req GenerationRequest) ([]PortfolioRunResult, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(model.PortfolioFilter{})
	if err != nil {
		return nil, err
	}

	results := make([]PortfolioRunResult, len(portfolios))

	var g errgroup.Group
	g.SetLimit(4)

	for i, portfolio := range portfolios {
		i, portfolio := i, portfolio
		g.Go(func() error {
			runReq := req
			runReq.AccountNumber = portfolio.AccountNumber

			result, err := s.Generate(runReq)
			if err != nil {
				results[i] = PortfolioRunResult{AccountNumber: portfolio.AccountNumber, Error: err.Error()}
				return nil
			}
			results[i] = PortfolioRunResult{AccountNumber: portfolio.AccountNumber, Result: result}
			return nil
		})
	}

	//nolint:errcheck // Workers never return errors; failures land in results.
	g.Wait()

	return results, nil
}

// acquire marks an account's generation as in flight.
func (s *GenerationService) acquire(accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[accountNumber]; busy {
		return fmt.Errorf("%w: %s", apperrors.ErrGenerationInFlight, accountNumber)
	}
	s.inFlight[accountNumber] = struct{}{}
	return nil
}

func (s *GenerationService) release(accountNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, accountNumber)
}
