package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
	zerrors "github.com/zordon-wallet/zordon/pkg/errors"
)

type service struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a routing service client with the specified base URL.
func New(baseURL string) ports.RoutingClient {
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &service{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// makeRequest handles HTTP requests to the routing API with proper
// headers and error handling. Non-2xx responses come back as an error
// carrying the status code.
func (s *service) makeRequest(
	ctx context.Context, method, endpoint string, body io.Reader,
) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) == 0 {
		return nil, resp.StatusCode, fmt.Errorf("empty response body")
	}

	return bodyBytes, resp.StatusCode, nil
}

func (s *service) FetchQuote(
	ctx context.Context, req domain.QuoteRequest,
) (*domain.QuoteResponse, error) {
	query := url.Values{}
	query.Set("direction", string(req.Direction))
	query.Set("source_chain", req.SourceChain)
	query.Set("source_asset", req.SourceAsset)
	query.Set("dest_chain", req.DestChain)
	query.Set("dest_asset", req.DestAsset)
	query.Set("amount", req.Amount)

	data, statusCode, err := s.makeRequest(
		ctx, http.MethodGet, "/quote?"+query.Encode(), nil,
	)
	if err != nil {
		return nil, zerrors.QUOTE_UNAVAILABLE.Wrap(err).
			WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	var resp quoteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, zerrors.QUOTE_UNAVAILABLE.Wrap(
			fmt.Errorf("failed to unmarshal quote: %w", err),
		).WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	legs := make([]domain.RouteLeg, 0, len(resp.Legs))
	for _, leg := range resp.Legs {
		legs = append(legs, domain.RouteLeg{Kind: leg.Kind, Fee: leg.Fee})
	}

	return &domain.QuoteResponse{
		QuoteId:     resp.QuoteId,
		AmountOut:   resp.AmountOut,
		SlippageBps: resp.SlippageBps,
		Legs:        legs,
	}, nil
}

func (s *service) SubmitIntent(
	ctx context.Context, req domain.SubmitIntentRequest,
) (*domain.SubmitIntentResponse, error) {
	body, err := json.Marshal(submitIntentRequest{
		QuoteId:     req.QuoteId,
		Destination: req.Destination,
	})
	if err != nil {
		return nil, zerrors.SUBMIT_FAILED.Wrap(err)
	}

	data, statusCode, err := s.makeRequest(
		ctx, http.MethodPost, "/submit", bytes.NewReader(body),
	)
	if err != nil {
		return nil, zerrors.SUBMIT_FAILED.Wrap(err).
			WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	var resp submitIntentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, zerrors.SUBMIT_FAILED.Wrap(
			fmt.Errorf("failed to unmarshal submit response: %w", err),
		).WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	return &domain.SubmitIntentResponse{IntentId: resp.IntentId}, nil
}

func (s *service) GetStatus(
	ctx context.Context, intentId string,
) (*domain.IntentStatus, error) {
	data, statusCode, err := s.makeRequest(
		ctx, http.MethodGet, "/status/"+url.PathEscape(intentId), nil,
	)
	if err != nil {
		return nil, zerrors.STATUS_UNAVAILABLE.Wrap(err).
			WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	var resp intentStatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, zerrors.STATUS_UNAVAILABLE.Wrap(
			fmt.Errorf("failed to unmarshal intent status: %w", err),
		).WithMetadata(zerrors.RoutingMetadata{Endpoint: s.baseURL, StatusCode: statusCode})
	}

	return &domain.IntentStatus{State: resp.State, Txids: resp.Txids}, nil
}

func (s *service) AvailableChains() []domain.ChainOption {
	return supportedChains
}
