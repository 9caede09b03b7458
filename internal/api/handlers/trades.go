package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
	"github.com/ndewijer/Fund-Trading-Backend/internal/validation"
)

// TradeHandler handles trade generation and trade listing HTTP requests.
type TradeHandler struct {
	generationService *service.GenerationService
	tradeService      *service.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(generationService *service.GenerationService, tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		generationService: generationService,
		tradeService:      tradeService,
	}
}

// Generate handles POST requests to run trade generation for one portfolio.
//
// Endpoint: POST /api/trades/generate
// Response: 200 OK with the generated trades and per-fund failures
// Error: 409 Conflict if a run for the account is already in flight
func (h *TradeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateTradesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	genReq, err := toGenerationRequest(req.AccountNumber, req.TradeDate, req.NetFlow, req.Mode, req.TargetWeights)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid generation request",
			"detail": err.Error(),
		})
		return
	}

	result, err := h.generationService.Generate(*genReq)
	if err != nil {
		respondServiceError(w, "trade generation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GenerateAll handles POST requests to sweep all active portfolios with one
// request. Individual portfolio failures are reported per portfolio in the
// response rather than failing the sweep.
//
// Endpoint: POST /api/trades/generate-all
func (h *TradeHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateAllTradesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	genReq, err := toGenerationRequest("", req.TradeDate, req.NetFlow, req.Mode, req.TargetWeights)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid generation request",
			"detail": err.Error(),
		})
		return
	}

	results, err := h.generationService.GenerateAll(*genReq)
	if err != nil {
		respondServiceError(w, "trade generation sweep failed", err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// toGenerationRequest validates the wire request and converts it into the
// service's input. An empty account number is allowed for sweeps.
func toGenerationRequest(accountNumber, tradeDate string, netFlow float64, mode string, weights []request.TargetWeight) (*service.GenerationRequest, error) {
	if accountNumber != "" {
		if err := validation.ValidateAccountNumber(accountNumber); err != nil {
			return nil, err
		}
	}

	parsedDate, err := validation.ParseDate(tradeDate)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateTradeMode(mode); err != nil {
		return nil, err
	}

	targetWeights := make([]model.TargetWeight, len(weights))
	for i, w := range weights {
		targetWeights[i] = model.TargetWeight{IndexIsin: w.IndexIsin, Weight: w.Weight}
	}
	if err := validation.ValidateTargetWeights(targetWeights); err != nil {
		return nil, err
	}

	return &service.GenerationRequest{
		AccountNumber: accountNumber,
		TradeDate:     parsedDate,
		NetFlow:       netFlow,
		Mode:          mode,
		TargetWeights: targetWeights,
	}, nil
}

// Trades handles GET requests listing generated trades, newest first.
//
// Endpoint: GET /api/trades
func (h *TradeHandler) Trades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.tradeService.GetTrades("")
	if err != nil {
		respondServiceError(w, "failed to retrieve trades", err)
		return
	}

	respondJSON(w, http.StatusOK, trades)
}

// TradesByAccount handles GET requests listing one portfolio's trades.
//
// Endpoint: GET /api/trades/{accountNumber}
func (h *TradeHandler) TradesByAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	trades, err := h.tradeService.GetTrades(accountNumber)
	if err != nil {
		respondServiceError(w, "failed to retrieve trades", err)
		return
	}

	respondJSON(w, http.StatusOK, trades)
}
