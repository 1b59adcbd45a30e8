package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dvasiliu/larder/internal/auth"
)

// RequireAuth validates the Authorization bearer token and populates
// AuthContext. A missing or malformed header is a 401; a token that fails
// signature or expiry checks is a 403.
func RequireAuth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "authorization header must be a bearer token")
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "invalid token")
				return
			}

			ac := auth.AuthContext{
				UserID:   claims.UserID,
				Username: claims.Username,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
