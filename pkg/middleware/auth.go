package middleware

import (
	"context"
	"net/http"
	"strings"

	"movie-comments/internal/data/entity"
	"movie-comments/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// Session attaches the signed-in user to the request context. The token is
// read from the session cookie or an "Authorization: Bearer" header.
// Requests without a valid session continue anonymously.
func Session(auth Authenticator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if user == nil {
				logger.Debug("Invalid or expired session", zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			// Set context dengan user info DAN token
			ctx := utils.SetUserContext(r.Context(), user.ID, user.Username)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}

	return ""
}
