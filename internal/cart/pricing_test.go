package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeThresholdBoundary(t *testing.T) {
	policy := DefaultPolicy()

	// Exactly at the threshold still pays shipping; the fee is waived only
	// strictly above it.
	atThreshold := policy.Compute([]Line{{ID: "p1", UnitPrice: dec("1000"), Quantity: 1}})
	if !atThreshold.Shipping.Equal(dec("100")) {
		t.Fatalf("expected shipping at threshold, got %s", atThreshold.Shipping)
	}

	aboveThreshold := policy.Compute([]Line{{ID: "p1", UnitPrice: dec("1000.01"), Quantity: 1}})
	if !aboveThreshold.Shipping.IsZero() {
		t.Fatalf("expected free shipping above threshold, got %s", aboveThreshold.Shipping)
	}
}

func TestComputeEmptyCartChargesNothing(t *testing.T) {
	totals := DefaultPolicy().Compute(nil)
	if !totals.Shipping.IsZero() || !totals.Total.IsZero() || totals.ItemCount != 0 {
		t.Fatalf("empty cart must total zero, got %+v", totals)
	}
}

func TestComputeTaxRoundsHalfUp(t *testing.T) {
	// 0.05 * 12.37 = 0.6185 -> 0.62
	totals := DefaultPolicy().Compute([]Line{{ID: "p1", UnitPrice: dec("12.37"), Quantity: 1}})
	if !totals.Tax.Equal(dec("0.62")) {
		t.Fatalf("expected tax 0.62, got %s", totals.Tax)
	}
}

func TestComputeMatchesWorkedScenario(t *testing.T) {
	lines := []Line{
		{ID: "p1", UnitPrice: dec("120"), Quantity: 3},
		{ID: "p2", UnitPrice: dec("95"), Quantity: 2},
	}
	totals := DefaultPolicy().Compute(lines)
	assertTotals(t, totals, "550", "27.5", "100", "677.5", 5)
}

func TestPolicyFromConfigUsesConfiguredRates(t *testing.T) {
	policy := Policy{
		TaxRate:               decimal.RequireFromString("0.10"),
		ShippingFee:           decimal.NewFromInt(50),
		FreeShippingThreshold: decimal.NewFromInt(200),
	}
	totals := policy.Compute([]Line{{ID: "p1", UnitPrice: dec("100"), Quantity: 1}})
	if !totals.Tax.Equal(dec("10")) {
		t.Fatalf("expected tax 10, got %s", totals.Tax)
	}
	if !totals.Shipping.Equal(dec("50")) {
		t.Fatalf("expected shipping 50, got %s", totals.Shipping)
	}
}
