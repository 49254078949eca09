package application

import (
	"context"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
	zerrors "github.com/zordon-wallet/zordon/pkg/errors"
)

// QuoteEngine fetches quotes from the routing service and vets them
// against the caller-supplied acceptance policy before they reach the
// execution path.
type QuoteEngine struct {
	routing ports.RoutingClient
}

func NewQuoteEngine(routing ports.RoutingClient) *QuoteEngine {
	return &QuoteEngine{routing: routing}
}

// GetAcceptedQuote returns a quote that passed the policy check.
// A quote at exactly the slippage cap is accepted; only quotes strictly
// above it are rejected.
func (e *QuoteEngine) GetAcceptedQuote(
	ctx context.Context, req domain.QuoteRequest, policy domain.Policy,
) (*domain.QuoteResponse, error) {
	quote, err := e.routing.FetchQuote(ctx, req)
	if err != nil {
		return nil, err
	}

	if quote.SlippageBps > policy.MaxSlippageBps {
		return nil, zerrors.POLICY_VIOLATION.New(
			"quote slippage %d bps exceeds cap of %d bps",
			quote.SlippageBps, policy.MaxSlippageBps,
		).WithMetadata(zerrors.PolicyMetadata{
			SlippageBps:    quote.SlippageBps,
			MaxSlippageBps: policy.MaxSlippageBps,
		})
	}

	// Route legs are passed through unvetted for now: there is no
	// product definition yet of which custody models or auto-shield
	// hops are acceptable per leg.
	return quote, nil
}
