package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart, keyed by product id. Name and
// UnitPrice are captured at add time and never overwritten by later adds of
// the same product.
type Line struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit *int            `json:"stock_limit,omitempty"`
}

// LineTotal returns unit price times quantity for this line.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are derived from the line sequence on every change and never
// stored.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// State is a cart snapshot: the ordered line sequence plus its derived
// totals. It is a value; mutating a returned State does not affect the
// persisted cart.
type State struct {
	SessionID string `json:"session_id"`
	Lines     []Line `json:"lines"`
	Totals    Totals `json:"totals"`
}

// IsEmpty reports whether the cart holds no lines.
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Find returns the line with the given id, if present.
func (s State) Find(id string) (Line, bool) {
	for _, line := range s.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}
