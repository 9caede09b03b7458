package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
	"github.com/ndewijer/Fund-Trading-Backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	importService    *service.ImportService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, importService *service.ImportService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		importService:    importService,
	}
}

// Portfolios handles GET requests to retrieve all portfolios.
//
// Endpoint: GET /api/portfolios
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		respondServiceError(w, "failed to retrieve portfolios", err)
		return
	}

	respondJSON(w, http.StatusOK, portfolios)
}

// Portfolio handles GET requests to retrieve one portfolio by account number.
//
// Endpoint: GET /api/portfolios/{accountNumber}
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	portfolio, err := h.portfolioService.GetPortfolio(accountNumber)
	if err != nil {
		respondServiceError(w, "failed to retrieve portfolio", err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to register a portfolio.
//
// Endpoint: POST /api/portfolios
// Response: 201 Created with the portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if err := validation.ValidateAccountNumber(req.AccountNumber); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid account number",
			"detail": err.Error(),
		})
		return
	}

	portfolio := model.Portfolio{
		AccountNumber:        req.AccountNumber,
		Name:                 req.Name,
		GuidelineSharesOwned: req.GuidelineSharesOwned,
		GuidelineAssetsOwned: req.GuidelineAssetsOwned,
		GuidelineMaxWeight:   req.GuidelineMaxWeight,
	}

	if err := h.portfolioService.CreatePortfolio(portfolio); err != nil {
		respondServiceError(w, "failed to create portfolio", err)
		return
	}

	created, err := h.portfolioService.GetPortfolio(req.AccountNumber)
	if err != nil {
		respondServiceError(w, "failed to retrieve created portfolio", err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Positions handles GET requests for a portfolio's position snapshot. The
// optional asOf query parameter (YYYY-MM-DD) defaults to today.
//
// Endpoint: GET /api/portfolios/{accountNumber}/positions?asOf=2026-04-13
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := validation.ParseDate(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "invalid asOf date",
				"detail": err.Error(),
			})
			return
		}
		asOf = parsed
	}

	positions, err := h.portfolioService.GetPositions(accountNumber, asOf)
	if err != nil {
		respondServiceError(w, "failed to retrieve positions", err)
		return
	}

	respondJSON(w, http.StatusOK, positions)
}

// ImportPositions handles POST requests with a custodian position snapshot
// CSV in the request body.
//
// Endpoint: POST /api/positions/import
func (h *PortfolioHandler) ImportPositions(w http.ResponseWriter, r *http.Request) {
	count, err := h.importService.ImportPositions(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "position import failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ImportResponse{Imported: count})
}
