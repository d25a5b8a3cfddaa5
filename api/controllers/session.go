package controllers

import (
	"net/http"

	"github.com/ricemandi/cart-service/api/responses"
	cartsvc "github.com/ricemandi/cart-service/internal/cart"
	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
	"github.com/ricemandi/cart-service/pkg/logger"
)

type sessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// SessionIssue mints a token for a fresh cart session. The client sends
// it back on every cart call in the session header.
func SessionIssue(tokens *cartsvc.SessionTokens, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, sessionID, err := tokens.Issue()
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issuing cart session"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			Token:     token,
			SessionID: sessionID,
		})
	}
}
