package middleware

import (
	"net/http"
	"strings"

	"movie-review/internal/authz"
	"movie-review/internal/data/repository"
	"movie-review/pkg/apperr"
	"movie-review/pkg/token"
	"movie-review/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer access token into an authz.Principal.
// A missing, malformed or expired token leaves the request anonymous and the
// policy decides whether that is enough. Only a failed user lookup is
// answered here, with a 500.
func Authenticate(tokens *token.Manager, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw, token.TypeAccess)
			if err != nil {
				logger.Debug("Rejected access token", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Debug("Access token without user", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			// The account may have been deleted after the token was issued.
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user", zap.Int64("user_id", userID), zap.Error(err))
				utils.ResponseError(w, apperr.Internal(err))
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			p := authz.Principal{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
			reportPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}
