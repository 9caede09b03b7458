package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Fund-Trading-Backend/internal/api/middleware"
)

func TestValidateIsinMiddleware(t *testing.T) {
	run := func(t *testing.T, isin string) (*httptest.ResponseRecorder, bool) {
		t.Helper()
		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.ValidateIsinMiddleware(next)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rctx := chi.NewRouteContext()
		if isin != "" {
			rctx.URLParams.Add("isin", isin)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		return w, handlerCalled
	}

	t.Run("passes through valid ISIN", func(t *testing.T) {
		w, handlerCalled := run(t, "LU0123456789")

		if !handlerCalled {
			t.Error("Expected next handler to be called")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("returns 400 for malformed ISIN", func(t *testing.T) {
		w, handlerCalled := run(t, "not-an-isin")

		if handlerCalled {
			t.Error("Expected next handler not to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for missing ISIN", func(t *testing.T) {
		w, handlerCalled := run(t, "")

		if handlerCalled {
			t.Error("Expected next handler not to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestValidateAccountNumberMiddleware(t *testing.T) {
	run := func(t *testing.T, account string) (*httptest.ResponseRecorder, bool) {
		t.Helper()
		handlerCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.ValidateAccountNumberMiddleware(next)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rctx := chi.NewRouteContext()
		if account != "" {
			rctx.URLParams.Add("accountNumber", account)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		return w, handlerCalled
	}

	t.Run("passes through valid account number", func(t *testing.T) {
		w, handlerCalled := run(t, "ACC-1001")

		if !handlerCalled {
			t.Error("Expected next handler to be called")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("returns 400 for account number with bad characters", func(t *testing.T) {
		w, handlerCalled := run(t, "acc 1001;drop")

		if handlerCalled {
			t.Error("Expected next handler not to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for missing account number", func(t *testing.T) {
		w, handlerCalled := run(t, "")

		if handlerCalled {
			t.Error("Expected next handler not to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
