package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/zordon-wallet/zordon/internal/core/ports"
)

const defaultCacheTTL = 60 * time.Second

type priceResponse struct {
	Zcash struct {
		Usd float64 `json:"usd"`
	} `json:"zcash"`
}

type service struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu        sync.Mutex
	rate      decimal.Decimal
	fetchedAt time.Time
}

type Option func(*service)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.cacheTTL = ttl
	}
}

// New creates a pricing client against a coingecko-compatible API.
func New(baseURL string, opts ...Option) ports.PricingService {
	baseURL = strings.TrimSuffix(baseURL, "/")

	svc := &service{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RateUSD returns the cached rate when fresh. On a fetch failure the
// previous rate is served as long as one exists.
func (s *service) RateUSD(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.cacheTTL {
		return s.rate, nil
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		if s.fetchedAt.IsZero() {
			return decimal.Zero, err
		}
		log.WithError(err).Warn("price fetch failed, serving stale rate")
		return s.rate, nil
	}

	s.rate = rate
	s.fetchedAt = time.Now()
	return s.rate, nil
}

func (s *service) fetch(ctx context.Context) (decimal.Decimal, error) {
	url := s.baseURL + "/simple/price?ids=zcash&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed priceResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal price: %w", err)
	}
	if parsed.Zcash.Usd <= 0 {
		return decimal.Zero, fmt.Errorf("invalid price in response")
	}

	return decimal.NewFromFloat(parsed.Zcash.Usd), nil
}
