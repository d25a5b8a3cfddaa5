package cart

import (
	"github.com/shopspring/decimal"

	"github.com/ricemandi/cart-service/pkg/config"
)

// Policy is the fixed pricing rule set applied to every cart: a flat tax
// rate on the subtotal and a flat shipping fee waived above a free-shipping
// threshold. An empty cart ships nothing and is charged nothing.
type Policy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPolicy returns the marketplace rules: 5% tax, 100 shipping, free
// above a 1000 subtotal.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:               decimal.RequireFromString("0.05"),
		ShippingFee:           decimal.NewFromInt(100),
		FreeShippingThreshold: decimal.NewFromInt(1000),
	}
}

// PolicyFromConfig builds the pricing policy from the cart configuration.
func PolicyFromConfig(cfg config.CartConfig) Policy {
	return Policy{
		TaxRate:               cfg.TaxRateDecimal(),
		ShippingFee:           cfg.ShippingFeeDecimal(),
		FreeShippingThreshold: cfg.FreeShippingThresholdDecimal(),
	}
}

// Compute derives the totals for a line sequence from scratch. Totals are
// never maintained incrementally, so a recompute can never drift from the
// lines.
func (p Policy) Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
		itemCount += line.Quantity
	}

	// Round half-up to two places so tax stays currency-safe.
	tax := subtotal.Mul(p.TaxRate).Round(2)

	shipping := decimal.Zero
	if itemCount > 0 && subtotal.LessThanOrEqual(p.FreeShippingThreshold) {
		shipping = p.ShippingFee
	}

	return Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     subtotal.Add(tax).Add(shipping),
		ItemCount: itemCount,
	}
}
