package middleware

import (
	"net/http"
	"strings"

	"innkeep/pkg/auth"
	"innkeep/pkg/logger"
)

// BearerAuth extracts the actor from an Authorization: Bearer token and
// stores it on the request context. Requests without a token pass through
// unauthenticated; endpoints that require an actor reject them downstream
// with 401. A present-but-invalid token is rejected here.
func BearerAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				rejectUnauthenticated(w, log, r, "malformed Authorization header")
				return
			}

			actor, err := auth.ParseToken(tokenString, secret)
			if err != nil {
				rejectUnauthenticated(w, log, r, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Rejected credentials",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"reason", reason,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or expired credentials"}`))
}
