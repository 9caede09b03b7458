package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fund and import services.
type FundHandler struct {
	fundService   *service.FundService
	importService *service.ImportService
}

// NewFundHandler creates a new FundHandler with the provided service dependencies.
func NewFundHandler(fundService *service.FundService, importService *service.ImportService) *FundHandler {
	return &FundHandler{
		fundService:   fundService,
		importService: importService,
	}
}

// Funds handles GET requests to retrieve all funds with their trading terms.
//
// Endpoint: GET /api/funds
// Response: 200 OK with array of funds
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.fundService.GetAllFunds()
	if err != nil {
		respondServiceError(w, "failed to retrieve funds", err)
		return
	}

	respondJSON(w, http.StatusOK, funds)
}

// Fund handles GET requests to retrieve one fund by ISIN.
//
// Endpoint: GET /api/funds/{isin}
// Response: 200 OK with the fund
// Error: 404 Not Found if no fund has the ISIN
func (h *FundHandler) Fund(w http.ResponseWriter, r *http.Request) {
	isin := chi.URLParam(r, "isin")

	fund, err := h.fundService.GetFund(isin)
	if err != nil {
		respondServiceError(w, "failed to retrieve fund", err)
		return
	}

	respondJSON(w, http.StatusOK, fund)
}

// FundStats handles GET requests for aggregate fund statistics.
//
// Endpoint: GET /api/funds/stats
func (h *FundHandler) FundStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fundService.GetFundStats()
	if err != nil {
		respondServiceError(w, "failed to retrieve fund statistics", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// ImportResponse reports the outcome of a CSV import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ImportFunds handles POST requests with a fund master CSV in the request
// body. Rows upsert by ISIN.
//
// Endpoint: POST /api/funds/import
// Response: 200 OK with ImportResponse
// Error: 400 Bad Request if the file cannot be parsed
func (h *FundHandler) ImportFunds(w http.ResponseWriter, r *http.Request) {
	count, err := h.importService.ImportFunds(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "fund import failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

// ImportIndexData handles POST requests with a vendor index data CSV in the
// request body.
//
// Endpoint: POST /api/index-data/import
func (h *FundHandler) ImportIndexData(w http.ResponseWriter, r *http.Request) {
	count, err := h.importService.ImportIndexData(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "index data import failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ImportResponse{Imported: count})
}
