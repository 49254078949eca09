package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PricingService resolves the current fiat rate for the native asset.
type PricingService interface {
	// RateUSD returns the current ZEC/USD rate. Implementations may
	// serve a cached value.
	RateUSD(ctx context.Context) (decimal.Decimal, error)
}
