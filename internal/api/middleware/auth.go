package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/movie-catalog/internal/auth"
	"github.com/dom/movie-catalog/internal/domain"
	"go.uber.org/zap"
)

type contextKey string

const (
	PayloadKey    contextKey = "tokenPayload"
	TokenErrorKey contextKey = "tokenError"
)

// Bearer decodes the Authorization header when one is present. A request
// without the header continues anonymously, a header that is not two tokens
// is rejected, and a token that fails verification is recorded so the route
// gates can decide.
func Bearer(tokens *auth.TokenIssuer, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("middleware.Bearer")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := auth.DecodeBearer(header)
			if err != nil {
				logger.Debug("Malformed authorization header", zap.Error(err))
				http.Error(w, "Malformed authorization header", http.StatusBadRequest)
				return
			}

			ctx := r.Context()
			payload, err := tokens.Decode(raw)
			if err != nil {
				logger.Debug("Token verification failed", zap.Error(err))
				ctx = context.WithValue(ctx, TokenErrorKey, err)
			} else {
				ctx = context.WithValue(ctx, PayloadKey, payload)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireToken rejects requests without a verified token of the given kind.
func RequireToken(kind domain.TokenKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := GetPayload(r.Context())
			if !ok {
				switch err := GetTokenError(r.Context()); {
				case errors.Is(err, domain.ErrTokenExpired):
					http.Error(w, "Token expired", http.StatusUnauthorized)
				case err != nil:
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					http.Error(w, "Authorization required", http.StatusUnauthorized)
				}
				return
			}

			if payload.Kind != kind {
				http.Error(w, "Expected "+string(kind)+" token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose token role is below the required one.
// It must run after RequireToken.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := GetPayload(r.Context())
			if !ok {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}
			if !payload.Role.Meets(role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPayload(ctx context.Context) (*domain.TokenPayload, bool) {
	payload, ok := ctx.Value(PayloadKey).(*domain.TokenPayload)
	return payload, ok && payload != nil
}

func GetTokenError(ctx context.Context) error {
	err, _ := ctx.Value(TokenErrorKey).(error)
	return err
}
