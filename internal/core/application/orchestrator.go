package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
)

const (
	defaultPollInterval    = 3 * time.Second
	defaultMaxPollAttempts = 20
)

type OrchestratorOption func(*Orchestrator)

func WithPollInterval(interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.pollInterval = interval
	}
}

func WithMaxPollAttempts(attempts int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.maxAttempts = attempts
	}
}

// Orchestrator drives a cross-chain intent end to end: quote, policy
// check, single submission, then bounded status polling.
type Orchestrator struct {
	engine  *QuoteEngine
	routing ports.RoutingClient

	pollInterval time.Duration
	maxAttempts  int
}

func NewOrchestrator(
	engine *QuoteEngine, routing ports.RoutingClient, opts ...OrchestratorOption,
) *Orchestrator {
	orch := &Orchestrator{
		engine:       engine,
		routing:      routing,
		pollInterval: defaultPollInterval,
		maxAttempts:  defaultMaxPollAttempts,
	}
	for _, opt := range opts {
		opt(orch)
	}
	return orch
}

// ExecutionResult is the outcome of one orchestrated intent. Completed
// is false when polling ran out of attempts while the intent was still
// in flight; that is not an error, LastStatus carries the final state
// observed.
type ExecutionResult struct {
	QuoteId    string
	IntentId   string
	LastStatus domain.IntentStatus
	Completed  bool
}

// Execute runs the full pipeline. The intent is submitted at most once;
// every polled status, terminal or not, is forwarded to observe before
// any decision is made on it.
func (o *Orchestrator) Execute(
	ctx context.Context,
	req domain.QuoteRequest,
	policy domain.Policy,
	destination string,
	observe func(domain.IntentStatus),
) (*ExecutionResult, error) {
	runId := uuid.NewString()
	logger := log.WithField("run_id", runId)

	quote, err := o.engine.GetAcceptedQuote(ctx, req, policy)
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("quote_id", quote.QuoteId)
	logger.WithField("slippage_bps", quote.SlippageBps).Debug("quote accepted")

	submitted, err := o.routing.SubmitIntent(ctx, domain.SubmitIntentRequest{
		QuoteId:     quote.QuoteId,
		Destination: destination,
	})
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("intent_id", submitted.IntentId)
	logger.Debug("intent submitted")

	result := &ExecutionResult{
		QuoteId:  quote.QuoteId,
		IntentId: submitted.IntentId,
	}

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		status, err := o.routing.GetStatus(ctx, submitted.IntentId)
		if err != nil {
			return nil, err
		}
		if observe != nil {
			observe(*status)
		}
		result.LastStatus = *status

		if strings.EqualFold(status.State, "completed") {
			result.Completed = true
			logger.WithField("attempts", attempt+1).Debug("intent completed")
			return result, nil
		}
	}

	logger.WithField("state", result.LastStatus.State).
		Debug("poll budget exhausted, intent still in flight")
	return result, nil
}
