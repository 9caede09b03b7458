package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	// Check database health
	if err := h.systemService.CheckHealth(); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	// System is healthy
	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// VersionInfoResponse represents the version check response containing application
// and database version information and feature availability.
type VersionInfoResponse struct {
	AppVersion string          `json:"app_version"`
	DbVersion  string          `json:"db_version"`
	Features   map[string]bool `json:"features"`
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		respondServiceError(w, "failed to get version information", err)
		return
	}

	response := VersionInfoResponse{
		AppVersion: version.AppVersion,
		DbVersion:  version.DbVersion,
		Features:   version.Features,
	}

	respondJSON(w, http.StatusOK, response)
}

// FeedConfig handles GET requests for the vendor feed configuration. The
// stored token itself is never returned, only whether one is set and when it
// expires.
//
// Endpoint: GET /api/system/feed-config
func (h *SystemHandler) FeedConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.systemService.GetFeedConfig()
	if err != nil {
		respondServiceError(w, "failed to get feed configuration", err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// UpdateFeedConfig handles PUT requests to store the vendor feed
// configuration. The token is encrypted before it reaches the database.
//
// Endpoint: PUT /api/system/feed-config
func (h *SystemHandler) UpdateFeedConfig(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateFeedConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		})
		return
	}

	if req.Vendor == "" || req.Token == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "vendor and token are required",
		})
		return
	}

	var expiresAt *time.Time
	if req.TokenExpiresAt != nil && *req.TokenExpiresAt != "" {
		parsed, err := time.Parse("2006-01-02", *req.TokenExpiresAt)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  "invalid tokenExpiresAt date",
				"detail": err.Error(),
			})
			return
		}
		expiresAt = &parsed
	}

	if err := h.systemService.SetFeedConfig(req.Vendor, req.Token, expiresAt); err != nil {
		respondServiceError(w, "failed to store feed configuration", err)
		return
	}

	cfg, err := h.systemService.GetFeedConfig()
	if err != nil {
		respondServiceError(w, "failed to get feed configuration", err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}
