package service_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
	"github.com/ndewijer/Fund-Trading-Backend/internal/testutil"
)

// The fixtures run against April 2026: trade date Wednesday the 15th, with
// Good Friday (the 3rd) and Easter Monday (the 6th) on the US calendar.
func seedGenerationBook(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	portfolio := testutil.CreatePortfolio(t, db, "ACC-1001")

	testutil.CreateCalendarDate(t, db, "US", testutil.Date(2026, 4, 3))
	testutil.CreateCalendarDate(t, db, "US", testutil.Date(2026, 4, 6))

	fundA := testutil.NewFund().
		WithISIN("LU0000000017").
		WithIndexISIN("US0000000090").
		WithRank(1).
		WithNotice(2, 2).
		WithSettlement(3, 3).
		Build(t, db)
	fundB := testutil.NewFund().
		WithISIN("LU0000000025").
		WithIndexISIN("US0000000108").
		WithRank(2).
		WithNotice(2, 2).
		WithSettlement(3, 3).
		Build(t, db)

	valuation := testutil.Date(2026, 4, 10)
	testutil.NewPosition(portfolio.AccountNumber, fundA.Isin).
		WithValue(60000).WithShares(600).WithPrice(100).
		WithValuationDate(valuation).
		Build(t, db)
	testutil.NewPosition(portfolio.AccountNumber, fundB.Isin).
		WithValue(40000).WithShares(200).WithPrice(200).
		WithValuationDate(valuation).
		Build(t, db)
	testutil.NewCashPosition(portfolio.AccountNumber).
		WithValue(0).
		WithValuationDate(valuation).
		Build(t, db)

	return portfolio
}

func baseRequest() service.GenerationRequest {
	return service.GenerationRequest{
		AccountNumber: "ACC-1001",
		TradeDate:     testutil.Date(2026, 4, 15),
		NetFlow:       0,
		Mode:          model.ModeRebalance,
		TargetWeights: []model.TargetWeight{
			{IndexIsin: "US0000000090", Weight: 50},
			{IndexIsin: "US0000000108", Weight: 50},
		},
	}
}

// Monday the 13th at 10:00, comfortably before any cutoff.
var asOfMorning = time.Date(2026, 4, 13, 10, 0, 0, 0, time.UTC)

func TestGenerationService_GenerateAt(t *testing.T) {
	t.Run("persists the batch with walked dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		seedGenerationBook(t, db)

		result, err := svc.GenerateAt(baseRequest(), asOfMorning)
		if err != nil {
			t.Fatalf("GenerateAt failed: %v", err)
		}

		if len(result.Trades) != 2 {
			t.Fatalf("Expected 2 trades, got %d", len(result.Trades))
		}
		if len(result.Failures) != 0 {
			t.Errorf("Expected no failures, got %v", result.Failures)
		}
		testutil.AssertRowCount(t, db, "trade_item", 2)

		// Ranks order the batch: fund A first
		first := result.Trades[0]
		if first.Isin == nil || *first.Isin != "LU0000000017" {
			t.Errorf("Expected rank-1 fund first, got %v", first.Isin)
		}

		// 60/40 to 50/50 on 100k moves 10k out of A into B
		if first.TradedAmount != -10000 {
			t.Errorf("Expected -10000 for fund A, got %.2f", first.TradedAmount)
		}
		if first.TradedShares != -100 {
			t.Errorf("Expected -100 shares for fund A, got %.2f", first.TradedShares)
		}

		// 2bd notice back from Wed the 15th lands on Monday the 13th,
		// 3bd settlement forward skips the weekend to Monday the 20th
		if !first.NoticeDate.Equal(testutil.Date(2026, 4, 13)) {
			t.Errorf("Expected notice 2026-04-13, got %s", first.NoticeDate)
		}
		if !first.SettlementDate.Equal(testutil.Date(2026, 4, 20)) {
			t.Errorf("Expected settlement 2026-04-20, got %s", first.SettlementDate)
		}
		if first.Breaches != "" {
			t.Errorf("Expected no breaches, got %q", first.Breaches)
		}
	})

	t.Run("records a cutoff push when the notice lands on the run day after cutoff", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		seedGenerationBook(t, db)

		// Same run at 18:00, past the 17:30 cutoff
		asOfEvening := time.Date(2026, 4, 13, 18, 0, 0, 0, time.UTC)

		result, err := svc.GenerateAt(baseRequest(), asOfEvening)
		if err != nil {
			t.Fatalf("GenerateAt failed: %v", err)
		}

		for _, trade := range result.Trades {
			if !strings.Contains(trade.Breaches, "CutoffExceeded") {
				t.Errorf("Expected CutoffExceeded breach, got %q", trade.Breaches)
			}
			if !trade.NoticeDate.Equal(testutil.Date(2026, 4, 14)) {
				t.Errorf("Expected notice pushed to 2026-04-14, got %s", trade.NoticeDate)
			}
		}
	})

	t.Run("records a missed notice without shifting dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		seedGenerationBook(t, db)

		// Run on Wednesday the 15th: the 2bd notice of Monday the 13th has passed
		asOfLate := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

		result, err := svc.GenerateAt(baseRequest(), asOfLate)
		if err != nil {
			t.Fatalf("GenerateAt failed: %v", err)
		}

		for _, trade := range result.Trades {
			if !strings.Contains(trade.Breaches, "NoticeMissed") {
				t.Errorf("Expected NoticeMissed breach, got %q", trade.Breaches)
			}
			if !trade.NoticeDate.Equal(testutil.Date(2026, 4, 13)) {
				t.Errorf("Expected notice kept at 2026-04-13, got %s", trade.NoticeDate)
			}
		}
	})

	t.Run("zeroes sub-minimum subscriptions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := seedGenerationBook(t, db)

		fundC := testutil.NewFund().
			WithISIN("LU0000000033").
			WithIndexISIN("US0000000116").
			WithRank(3).
			WithSubMinimum(50000).
			Build(t, db)
		testutil.NewPosition(portfolio.AccountNumber, fundC.Isin).
			WithValue(1000).WithShares(10).WithPrice(100).
			WithValuationDate(testutil.Date(2026, 4, 10)).
			Build(t, db)

		req := baseRequest()
		req.Mode = model.ModeCash
		req.NetFlow = 3000
		req.TargetWeights = []model.TargetWeight{{IndexIsin: "US0000000116", Weight: 100}}

		result, err := svc.GenerateAt(req, asOfMorning)
		if err != nil {
			t.Fatalf("GenerateAt failed: %v", err)
		}

		if len(result.Trades) != 1 {
			t.Fatalf("Expected 1 trade, got %d", len(result.Trades))
		}
		trade := result.Trades[0]
		if trade.TradedAmount != 0 || trade.TradedShares != 0 {
			t.Errorf("Expected zeroed trade, got amount %.2f shares %.2f", trade.TradedAmount, trade.TradedShares)
		}
		if !strings.Contains(trade.Breaches, "BelowMinimum") {
			t.Errorf("Expected BelowMinimum breach, got %q", trade.Breaches)
		}
	})

	t.Run("redeems a holding in a retired fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := seedGenerationBook(t, db)

		fundE := testutil.NewFund().
			WithISIN("LU0000000058").
			WithIndexISIN("US0000000132").
			WithRank(4).
			Inactive().
			Build(t, db)
		testutil.NewPosition(portfolio.AccountNumber, fundE.Isin).
			WithValue(1000).WithShares(10).WithPrice(100).
			WithValuationDate(testutil.Date(2026, 4, 10)).
			Build(t, db)

		result, err := svc.GenerateAt(baseRequest(), asOfMorning)
		if err != nil {
			t.Fatalf("GenerateAt failed: %v", err)
		}

		if len(result.Trades) != 3 {
			t.Fatalf("Expected 3 trades, got %d", len(result.Trades))
		}
		var retired *model.TradeItem
		for i := range result.Trades {
			if result.Trades[i].Isin != nil && *result.Trades[i].Isin == fundE.Isin {
				retired = &result.Trades[i]
			}
		}
		if retired == nil {
			t.Fatal("Expected a trade for the retired fund")
		}
		if retired.TradedAmount != -1000 {
			t.Errorf("Expected full redemption of -1000, got %.2f", retired.TradedAmount)
		}
	})

	t.Run("fails the run for an unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		seedGenerationBook(t, db)

		req := baseRequest()
		req.AccountNumber = "ACC-9999"

		_, err := svc.GenerateAt(req, asOfMorning)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("fails the run for an unknown trade mode", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		seedGenerationBook(t, db)

		req := baseRequest()
		req.Mode = "Sideways"

		_, err := svc.GenerateAt(req, asOfMorning)
		if !errors.Is(err, apperrors.ErrInvalidTradeMode) {
			t.Errorf("Expected ErrInvalidTradeMode, got %v", err)
		}
		testutil.AssertRowCount(t, db, "trade_item", 0)
	})

	t.Run("fails the run when a fund references an unknown calendar", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := seedGenerationBook(t, db)

		fundD := testutil.NewFund().
			WithISIN("LU0000000041").
			WithIndexISIN("US0000000124").
			WithCalendars("XX").
			Build(t, db)
		testutil.NewPosition(portfolio.AccountNumber, fundD.Isin).
			WithValuationDate(testutil.Date(2026, 4, 10)).
			Build(t, db)

		req := baseRequest()
		req.TargetWeights = append(req.TargetWeights, model.TargetWeight{IndexIsin: "US0000000124", Weight: 0})

		_, err := svc.GenerateAt(req, asOfMorning)
		if !errors.Is(err, apperrors.ErrCalendarNotFound) {
			t.Errorf("Expected ErrCalendarNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, db, "trade_item", 0)
	})
}

func TestGenerationService_GenerateAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestGenerationService(t, db)
	seedGenerationBook(t, db)

	// Active portfolio without positions fails its own run only
	testutil.CreatePortfolio(t, db, "ACC-1002")
	// Inactive portfolios are skipped entirely
	testutil.NewPortfolio().WithAccountNumber("ACC-1003").Inactive().Build(t, db)

	req := baseRequest()
	req.AccountNumber = ""

	results, err := svc.GenerateAll(req)
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 portfolio results, got %d", len(results))
	}

	byAccount := make(map[string]service.PortfolioRunResult, len(results))
	for _, r := range results {
		byAccount[r.AccountNumber] = r
	}

	if byAccount["ACC-1001"].Result == nil || len(byAccount["ACC-1001"].Result.Trades) != 2 {
		t.Errorf("Expected ACC-1001 to produce 2 trades, got %+v", byAccount["ACC-1001"])
	}
	if byAccount["ACC-1002"].Error == "" {
		t.Error("Expected ACC-1002 to report a missing-positions error")
	}
}
