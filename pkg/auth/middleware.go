// Package auth implements the shared-secret bearer-token gate for
// administrative endpoints.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// DevToken is a fixed low-entropy token accepted only when explicitly
// enabled. It exists for local development against the admin UI; production
// deployments must configure a strong secret and leave it disabled.
const DevToken = "5374"

// RequireAdmin authorizes requests whose Authorization header carries a
// bearer token equal to secret, or to DevToken when allowDevToken is set.
// Everything else is rejected with a generic 401, including a missing header
// and an empty secret with the dev token disabled.
func RequireAdmin(secret string, allowDevToken bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || !tokenValid(token, secret, allowDevToken) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}

func tokenValid(token, secret string, allowDevToken bool) bool {
	if secret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
		return true
	}
	if allowDevToken && subtle.ConstantTimeCompare([]byte(token), []byte(DevToken)) == 1 {
		return true
	}
	return false
}
