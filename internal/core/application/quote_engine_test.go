package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	zerrors "github.com/zordon-wallet/zordon/pkg/errors"
)

func TestGetAcceptedQuote(t *testing.T) {
	req := domain.QuoteRequest{
		Direction:   domain.DirectionInbound,
		SourceChain: "eth",
		SourceAsset: "ETH",
		DestChain:   "zec",
		DestAsset:   "ZEC",
		Amount:      "1.5",
	}

	fixtures := []struct {
		name           string
		slippageBps    int
		maxSlippageBps int
		rejected       bool
	}{
		{name: "below the cap", slippageBps: 40, maxSlippageBps: 100},
		{name: "exactly at the cap", slippageBps: 100, maxSlippageBps: 100},
		{name: "above the cap", slippageBps: 101, maxSlippageBps: 100, rejected: true},
		{name: "zero cap accepts zero slippage", slippageBps: 0, maxSlippageBps: 0},
		{name: "zero cap rejects any slippage", slippageBps: 1, maxSlippageBps: 0, rejected: true},
	}

	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			routing := &fakeRoutingClient{
				quote: &domain.QuoteResponse{
					QuoteId:     "q-1",
					AmountOut:   "33.2",
					SlippageBps: f.slippageBps,
				},
			}
			engine := NewQuoteEngine(routing)

			quote, err := engine.GetAcceptedQuote(
				context.Background(), req, domain.Policy{MaxSlippageBps: f.maxSlippageBps},
			)
			if f.rejected {
				requireErrCode(t, err, zerrors.POLICY_VIOLATION.Name)
				require.Nil(t, quote)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "q-1", quote.QuoteId)
		})
	}

	t.Run("fetch failure is passed through", func(t *testing.T) {
		routing := &fakeRoutingClient{quoteErr: errBoom}
		engine := NewQuoteEngine(routing)

		quote, err := engine.GetAcceptedQuote(
			context.Background(), req, domain.Policy{MaxSlippageBps: 100},
		)
		require.Error(t, err)
		require.Nil(t, quote)
	})
}
