package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	setupHandler := func(t *testing.T) (*SystemHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestSystemService(t, db)
		return NewSystemHandler(ss), db
	}

	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}

		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}

		if response.Error != "" {
			t.Errorf("Expected no error, got '%s'", response.Error)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, db := setupHandler(t)

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	setupHandler := func(t *testing.T) (*SystemHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestSystemService(t, db)
		return NewSystemHandler(ss), db
	}

	t.Run("returns version information successfully", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response VersionInfoResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.AppVersion == "" {
			t.Error("Expected app_version to be populated")
		}

		if response.DbVersion == "" {
			t.Error("Expected db_version to be populated")
		}

		if response.Features == nil {
			t.Error("Expected features map to be initialized")
		}

		if !response.Features["feed_config"] {
			t.Error("Expected feed_config feature to be enabled with a fernet key")
		}
	})
}

func TestSystemHandler_FeedConfig(t *testing.T) {
	setupHandler := func(t *testing.T) *SystemHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestSystemService(t, db)
		return NewSystemHandler(ss)
	}

	t.Run("returns 404 before configuration is stored", func(t *testing.T) {
		handler := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/feed-config", nil)
		w := httptest.NewRecorder()

		handler.FeedConfig(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("stores and returns configuration without the token", func(t *testing.T) {
		handler := setupHandler(t)

		body := bytes.NewBufferString(`{"vendor":"bloomberg","token":"secret-feed-token","tokenExpiresAt":"2027-01-01"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/system/feed-config", body)
		w := httptest.NewRecorder()

		handler.UpdateFeedConfig(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var cfg model.FeedConfig
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&cfg)

		if !cfg.Configured {
			t.Error("Expected configured to be true")
		}
		if cfg.Vendor != "bloomberg" {
			t.Errorf("Expected vendor 'bloomberg', got '%s'", cfg.Vendor)
		}
		if !cfg.TokenSet {
			t.Error("Expected tokenSet to be true")
		}
		if cfg.Token != "" {
			t.Error("Expected token to never be returned")
		}
	})

	t.Run("rejects update without vendor or token", func(t *testing.T) {
		handler := setupHandler(t)

		body := bytes.NewBufferString(`{"vendor":"bloomberg"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/system/feed-config", body)
		w := httptest.NewRecorder()

		handler.UpdateFeedConfig(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
