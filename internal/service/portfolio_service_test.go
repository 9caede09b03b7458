package service_test

import (
	"errors"
	"testing"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/testutil"
)

func TestPortfolioService_GetAllPortfolios(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.CreatePortfolio(t, db, "ACC-1001")
	testutil.NewPortfolio().WithAccountNumber("ACC-1002").Inactive().Build(t, db)

	portfolios, err := svc.GetAllPortfolios()
	if err != nil {
		t.Fatalf("GetAllPortfolios failed: %v", err)
	}

	// The read surface keeps inactive portfolios visible
	if len(portfolios) != 2 {
		t.Errorf("Expected 2 portfolios, got %d", len(portfolios))
	}
}

func TestPortfolioService_GetPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	testutil.NewPortfolio().
		WithAccountNumber("ACC-1001").
		WithGuidelineMaxWeight(40).
		Build(t, db)

	t.Run("returns the portfolio with guidelines", func(t *testing.T) {
		portfolio, err := svc.GetPortfolio("ACC-1001")
		if err != nil {
			t.Fatalf("GetPortfolio failed: %v", err)
		}

		if portfolio.AccountNumber != "ACC-1001" {
			t.Errorf("Expected ACC-1001, got %s", portfolio.AccountNumber)
		}
		if portfolio.GuidelineMaxWeight == nil || *portfolio.GuidelineMaxWeight != 40 {
			t.Errorf("Expected guideline max weight 40, got %v", portfolio.GuidelineMaxWeight)
		}
		if portfolio.GuidelineSharesOwned != nil {
			t.Errorf("Expected unset shares-owned guideline, got %v", portfolio.GuidelineSharesOwned)
		}
	})

	t.Run("returns ErrPortfolioNotFound for an unknown account", func(t *testing.T) {
		_, err := svc.GetPortfolio("ACC-9999")
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

func TestPortfolioService_CreatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	err := svc.CreatePortfolio(model.Portfolio{
		AccountNumber: "ACC-2001",
		Name:          "Growth Mandate",
	})
	if err != nil {
		t.Fatalf("CreatePortfolio failed: %v", err)
	}

	created, err := svc.GetPortfolio("ACC-2001")
	if err != nil {
		t.Fatalf("GetPortfolio failed: %v", err)
	}
	if created.Status != model.StatusActive {
		t.Errorf("Expected default status Active, got %s", created.Status)
	}
}

func TestPortfolioService_GetPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	portfolio := testutil.CreatePortfolio(t, db, "ACC-1001")
	fund := testutil.NewFund().Build(t, db)

	testutil.NewPosition(portfolio.AccountNumber, fund.Isin).
		WithValuationDate(testutil.Date(2026, 4, 10)).
		Build(t, db)
	testutil.NewPosition(portfolio.AccountNumber, fund.Isin).
		WithValuationDate(testutil.Date(2026, 4, 17)).
		Build(t, db)

	t.Run("filters positions by as-of date", func(t *testing.T) {
		positions, err := svc.GetPositions(portfolio.AccountNumber, testutil.Date(2026, 4, 13))
		if err != nil {
			t.Fatalf("GetPositions failed: %v", err)
		}
		if len(positions) != 1 {
			t.Errorf("Expected 1 position as of the 13th, got %d", len(positions))
		}
	})

	t.Run("returns ErrPortfolioNotFound for an unknown account", func(t *testing.T) {
		_, err := svc.GetPositions("ACC-9999", testutil.Date(2026, 4, 13))
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}
