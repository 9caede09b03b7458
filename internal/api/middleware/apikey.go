package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api/response"
)

// timeTokenWindow is how long a generated time token stays valid.
const timeTokenWindow = 5 * time.Minute

// APIKeyMiddleware guards mutating routes with a shared API key plus a
// short-lived HMAC time token, so a leaked request capture cannot be
// replayed indefinitely. The key comes from the INTERNAL_API_KEY
// environment variable.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("INTERNAL_API_KEY")
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal configuration error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		if !validateTimeToken(apiKey, timeToken) {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken creates a time token bound to the given API key. The
// token encodes the issue timestamp and an HMAC over it, and is accepted
// for timeTokenWindow after issuance.
func GenerateTimeToken(apiKey string) string {
	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	payload := fmt.Sprintf("%s:%s", timestamp, signTimestamp(apiKey, timestamp))
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

func validateTimeToken(apiKey, token string) bool {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return false
	}

	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return false
	}

	expected := signTimestamp(apiKey, parts[0])
	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
		return false
	}

	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}

	age := time.Since(time.Unix(issued, 0))
	return age >= 0 && age <= timeTokenWindow
}

func signTimestamp(apiKey, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
