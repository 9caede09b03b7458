package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/handlers"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/testutil"
)

func TestPortfolioHandler_Portfolios(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(
		testutil.NewTestPortfolioService(t, db),
		testutil.NewTestImportService(t, db),
	)

	testutil.CreatePortfolio(t, db, "ACC-1001")
	testutil.NewPortfolio().WithAccountNumber("ACC-1002").Inactive().Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolios", nil)
	w := httptest.NewRecorder()

	handler.Portfolios(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var portfolios []model.Portfolio
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&portfolios)

	// Inactive portfolios stay visible on the read surface
	if len(portfolios) != 2 {
		t.Errorf("Expected 2 portfolios, got %d", len(portfolios))
	}
}

func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	setupHandler := func(t *testing.T) *handlers.PortfolioHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		return handlers.NewPortfolioHandler(
			testutil.NewTestPortfolioService(t, db),
			testutil.NewTestImportService(t, db),
		)
	}

	t.Run("creates a portfolio with guidelines", func(t *testing.T) {
		handler := setupHandler(t)

		body := bytes.NewBufferString(`{"accountNumber":"ACC-2001","name":"Growth Mandate","guidelineMaxWeight":40}`)
		req := httptest.NewRequest(http.MethodPost, "/api/portfolios", body)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.Portfolio
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)

		if created.AccountNumber != "ACC-2001" {
			t.Errorf("Expected account ACC-2001, got %s", created.AccountNumber)
		}
		if created.Status != model.StatusActive {
			t.Errorf("Expected status Active, got %s", created.Status)
		}
		if created.GuidelineMaxWeight == nil || *created.GuidelineMaxWeight != 40 {
			t.Errorf("Expected guideline max weight 40, got %v", created.GuidelineMaxWeight)
		}
	})

	t.Run("rejects a malformed account number", func(t *testing.T) {
		handler := setupHandler(t)

		body := bytes.NewBufferString(`{"accountNumber":"bad account!","name":"Broken"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/portfolios", body)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_Positions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(
		testutil.NewTestPortfolioService(t, db),
		testutil.NewTestImportService(t, db),
	)

	portfolio := testutil.CreatePortfolio(t, db, "ACC-1001")
	fund := testutil.NewFund().Build(t, db)
	testutil.NewPosition(portfolio.AccountNumber, fund.Isin).
		WithValuationDate(testutil.Date(2026, 4, 10)).
		Build(t, db)
	testutil.NewCashPosition(portfolio.AccountNumber).
		WithValuationDate(testutil.Date(2026, 4, 10)).
		Build(t, db)

	t.Run("returns positions as of a date", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolios/ACC-1001/positions?asOf=2026-04-13",
			map[string]string{"accountNumber": portfolio.AccountNumber})
		q := req.URL.Query()
		q.Set("asOf", "2026-04-13")
		req.URL.RawQuery = q.Encode()
		w := httptest.NewRecorder()

		handler.Positions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var positions []model.Position
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&positions)

		if len(positions) != 2 {
			t.Errorf("Expected 2 positions, got %d", len(positions))
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolios/ACC-9999/positions",
			map[string]string{"accountNumber": "ACC-9999"})
		w := httptest.NewRecorder()

		handler.Positions(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an invalid asOf date", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolios/ACC-1001/positions",
			map[string]string{"accountNumber": portfolio.AccountNumber})
		q := req.URL.Query()
		q.Set("asOf", "13-04-2026")
		req.URL.RawQuery = q.Encode()
		w := httptest.NewRecorder()

		handler.Positions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_ImportPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(
		testutil.NewTestPortfolioService(t, db),
		testutil.NewTestImportService(t, db),
	)

	portfolio := testutil.CreatePortfolio(t, db, "ACC-1001")
	fund := testutil.NewFund().WithISIN("LU0000000017").Build(t, db)

	csvFile := fmt.Sprintf(`Fund,ISIN Number,Fund Asset Class,Base Market Value,Shares/Par Value,Base Price Amount,Period End Date
%s,%s,EQUITY,"60,000.00",600,100,2026-04-10
%s,,CURRENCY,"40,000.00",0,0,2026-04-10
`, portfolio.AccountNumber, fund.Isin, portfolio.AccountNumber)

	t.Run("imports a custodian snapshot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/positions/import", bytes.NewBufferString(csvFile))
		w := httptest.NewRecorder()

		handler.ImportPositions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "position", 2)
	})

	t.Run("rejects a snapshot for an unknown account", func(t *testing.T) {
		bad := `Fund,ISIN Number,Fund Asset Class,Base Market Value,Shares/Par Value,Base Price Amount,Period End Date
ACC-9999,LU0000000017,EQUITY,1000,10,100,2026-04-10
`
		req := httptest.NewRequest(http.MethodPost, "/api/positions/import", bytes.NewBufferString(bad))
		w := httptest.NewRecorder()

		handler.ImportPositions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "position", 2)
	})
}
