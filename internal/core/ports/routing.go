package ports

import (
	"context"

	"github.com/zordon-wallet/zordon/internal/core/domain"
)

// RoutingClient is the stateless client to the routing/quoting service.
// It performs no retries: retry policy belongs to the orchestrator.
type RoutingClient interface {
	FetchQuote(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteResponse, error)
	SubmitIntent(
		ctx context.Context, req domain.SubmitIntentRequest,
	) (*domain.SubmitIntentResponse, error)
	GetStatus(ctx context.Context, intentId string) (*domain.IntentStatus, error)
	// AvailableChains returns the supported bridge/asset catalog in
	// display order. No network call is made.
	AvailableChains() []domain.ChainOption
}
