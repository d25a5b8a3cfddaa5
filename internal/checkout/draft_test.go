package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ricemandi/cart-service/internal/cart"
	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func sampleState() cart.State {
	lines := []cart.Line{
		{ID: "p1", Name: "Basmati 5kg", UnitPrice: dec("120"), Quantity: 3},
		{ID: "p2", Name: "Jasmine 2kg", UnitPrice: dec("95"), Quantity: 2},
	}
	return cart.State{
		SessionID: "s1",
		Lines:     lines,
		Totals:    cart.DefaultPolicy().Compute(lines),
	}
}

func TestBuildDraftMirrorsCart(t *testing.T) {
	svc := NewService()

	draft, err := svc.BuildDraft(context.Background(), sampleState())
	if err != nil {
		t.Fatalf("build draft: %v", err)
	}

	if draft.SessionID != "s1" || len(draft.Lines) != 2 {
		t.Fatalf("unexpected draft shape: %+v", draft)
	}
	if !draft.Subtotal.Equal(dec("550")) || !draft.Total.Equal(dec("677.5")) {
		t.Fatalf("totals not carried over: subtotal=%s total=%s", draft.Subtotal, draft.Total)
	}
	if !draft.Lines[0].LineTotal.Equal(dec("360")) {
		t.Fatalf("expected line total 360, got %s", draft.Lines[0].LineTotal)
	}
	if draft.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", draft.ItemCount)
	}
	if len(draft.StockWarnings) != 0 {
		t.Fatalf("no warnings expected, got %+v", draft.StockWarnings)
	}
}

func TestBuildDraftFlagsStockLimitBreaches(t *testing.T) {
	svc := NewService()
	limit := 2
	state := sampleState()
	state.Lines[0].StockLimit = &limit

	draft, err := svc.BuildDraft(context.Background(), state)
	if err != nil {
		t.Fatalf("build draft: %v", err)
	}
	if len(draft.StockWarnings) != 1 {
		t.Fatalf("expected one stock warning, got %+v", draft.StockWarnings)
	}
	warning := draft.StockWarnings[0]
	if warning.ProductID != "p1" || warning.StockLimit != 2 || warning.RequestedQty != 3 {
		t.Fatalf("unexpected warning %+v", warning)
	}
}

func TestBuildDraftRejectsEmptyCart(t *testing.T) {
	svc := NewService()

	_, err := svc.BuildDraft(context.Background(), cart.State{SessionID: "s1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.BuildDraft(context.Background(), cart.State{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing session, got %v", err)
	}
}
