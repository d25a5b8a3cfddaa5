package middleware

import (
	"net/http"

	"github.com/ricemandi/cart-service/api/responses"
	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
	"github.com/ricemandi/cart-service/pkg/logger"
)

// SessionValidator verifies a cart session token and returns its session id.
type SessionValidator interface {
	Validate(token string) (string, error)
}

// CartSession requires a valid session token on the configured header and
// stashes the session id in the request context.
func CartSession(validator SessionValidator, headerName string, logg *logger.Logger) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "X-Cart-Session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(headerName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session token required"))
				return
			}

			sessionID, err := validator.Validate(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid cart session token"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
