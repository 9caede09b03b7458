// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Fund-Trading-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Trading-Backend/internal/validation"
)

// ValidateIsinMiddleware validates that the isin URL parameter is present and
// has a valid ISIN shape. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{isin}", func(r chi.Router) {
//	    r.Use(middleware.ValidateIsinMiddleware)
//	    r.Get("/", handler.Fund)
//	})
func ValidateIsinMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isin := chi.URLParam(r, "isin")

		if isin == "" {
			response.RespondError(w, http.StatusBadRequest, "valid ISIN is required", "")
			return
		}

		if err := validation.ValidateISIN(isin); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ISIN format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateAccountNumberMiddleware validates that the accountNumber URL
// parameter is present and well formed. Returns 400 Bad Request otherwise.
func ValidateAccountNumberMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "accountNumber")

		if account == "" {
			response.RespondError(w, http.StatusBadRequest, "valid account number is required", "")
			return
		}

		if err := validation.ValidateAccountNumber(account); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid account number", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
