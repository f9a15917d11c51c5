package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkarpov/tasktrack/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// withAuth requires a "Bearer <token>" Authorization header and puts the
// token's subject into the request context. Expired, forged and otherwise
// invalid tokens all get the same response.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "Missing or invalid Authorization header", nil)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
