package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ricemandi/cart-service/internal/cart"
	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
)

// Service builds the order request the storefront sends to the external
// order-placement API. It only reads cart state; placing the order is not
// this service's job.
type Service interface {
	BuildDraft(ctx context.Context, state cart.State) (*OrderDraft, error)
}

// OrderDraft is the checkout payload derived from a cart snapshot.
type OrderDraft struct {
	SessionID     string          `json:"session_id"`
	Lines         []DraftLine     `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	StockWarnings []StockWarning  `json:"stock_warnings,omitempty"`
}

// DraftLine mirrors one cart line in the order request.
type DraftLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// StockWarning flags a line whose quantity exceeds its advisory stock
// limit. The cart engine does not enforce the limit; checkout surfaces it
// so the storefront can warn before the order is placed.
type StockWarning struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	StockLimit   int    `json:"stock_limit"`
	RequestedQty int    `json:"requested_qty"`
}

type service struct{}

func NewService() Service {
	return &service{}
}

func (s *service) BuildDraft(ctx context.Context, state cart.State) (*OrderDraft, error) {
	if state.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if state.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	draft := &OrderDraft{
		SessionID: state.SessionID,
		Lines:     make([]DraftLine, 0, len(state.Lines)),
		Subtotal:  state.Totals.Subtotal,
		Tax:       state.Totals.Tax,
		Shipping:  state.Totals.Shipping,
		Total:     state.Totals.Total,
		ItemCount: state.Totals.ItemCount,
	}

	for _, line := range state.Lines {
		draft.Lines = append(draft.Lines, DraftLine{
			ProductID: line.ID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
		if line.StockLimit != nil && line.Quantity > *line.StockLimit {
			draft.StockWarnings = append(draft.StockWarnings, StockWarning{
				ProductID:    line.ID,
				ProductName:  line.Name,
				StockLimit:   *line.StockLimit,
				RequestedQty: line.Quantity,
			})
		}
	}

	return draft, nil
}
