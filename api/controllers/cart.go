package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ricemandi/cart-service/api/middleware"
	"github.com/ricemandi/cart-service/api/responses"
	"github.com/ricemandi/cart-service/api/validators"
	cartsvc "github.com/ricemandi/cart-service/internal/cart"
	checkoutsvc "github.com/ricemandi/cart-service/internal/checkout"
	"github.com/ricemandi/cart-service/internal/notifications"
	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
	"github.com/ricemandi/cart-service/pkg/logger"
)

// CartGet returns the hydrated cart with derived totals.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		state, err := svc.Load(r.Context(), sessionID)
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartStateResponse(state, err))
	}
}

// CartAddItem adds a product to the cart, merging quantity on re-add.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Add(r.Context(), sessionID, payload.toInput())
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warnPersist(r, logg, err)

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartStateResponse(state, err))
	}
}

// CartSetQuantity overwrites a line's quantity; zero removes the line.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		lineID := chi.URLParam(r, "id")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SetQuantity(r.Context(), sessionID, lineID, payload.Quantity)
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warnPersist(r, logg, err)

		responses.WriteSuccess(w, newCartStateResponse(state, err))
	}
}

// CartRemoveItem deletes a line; removing an unknown id is a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		lineID := chi.URLParam(r, "id")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		state, err := svc.Remove(r.Context(), sessionID, lineID)
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warnPersist(r, logg, err)

		responses.WriteSuccess(w, newCartStateResponse(state, err))
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		state, err := svc.Clear(r.Context(), sessionID)
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warnPersist(r, logg, err)

		responses.WriteSuccess(w, newCartStateResponse(state, err))
	}
}

// CartCheckoutDraft builds the order request for the external
// order-placement API from the current cart.
func CartCheckoutDraft(svc cartsvc.Service, checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		state, err := svc.Load(r.Context(), sessionID)
		if err != nil && cartsvc.AsPersistWarning(err) == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := checkout.BuildDraft(r.Context(), state)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

// CartNotifications lists the recent confirmation messages for a session.
func CartNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"messages": svc.Recent(sessionID),
		})
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session missing"))
		return "", false
	}
	return sessionID, true
}

func warnPersist(r *http.Request, logg *logger.Logger, err error) {
	if logg == nil {
		return
	}
	if warning := cartsvc.AsPersistWarning(err); warning != nil {
		logg.Warn(r.Context(), warning.Error())
	}
}

type addItemRequest struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity" validate:"required,min=1"`
	StockLimit *int            `json:"stock_limit" validate:"omitempty,gte=0"`
}

func (r addItemRequest) toInput() cartsvc.AddInput {
	return cartsvc.AddInput{
		ID:         r.ID,
		Name:       r.Name,
		UnitPrice:  r.UnitPrice,
		Quantity:   r.Quantity,
		StockLimit: r.StockLimit,
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type cartLineResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit *int            `json:"stock_limit,omitempty"`
}

type cartTotalsResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type cartStateResponse struct {
	SessionID      string             `json:"session_id"`
	Lines          []cartLineResponse `json:"lines"`
	Totals         cartTotalsResponse `json:"totals"`
	PersistWarning bool               `json:"persist_warning,omitempty"`
}

func newCartStateResponse(state cartsvc.State, err error) cartStateResponse {
	lines := make([]cartLineResponse, 0, len(state.Lines))
	for _, line := range state.Lines {
		lines = append(lines, cartLineResponse{
			ID:         line.ID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			StockLimit: line.StockLimit,
		})
	}
	return cartStateResponse{
		SessionID: state.SessionID,
		Lines:     lines,
		Totals: cartTotalsResponse{
			Subtotal:  state.Totals.Subtotal,
			Tax:       state.Totals.Tax,
			Shipping:  state.Totals.Shipping,
			Total:     state.Totals.Total,
			ItemCount: state.Totals.ItemCount,
		},
		PersistWarning: cartsvc.AsPersistWarning(err) != nil,
	}
}
