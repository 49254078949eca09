package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
)

type fakeSynchronizer struct {
	mu sync.Mutex

	prepareModes []ports.PrepareMode
	prepareErrs  []error // popped per call, nil entry means success
	startErrs    []error
	birthday     uint64

	accounts        []ports.Account
	unifiedAddr     string
	transparentAddr string

	proposeErr  error
	executeTxid string
	executeErr  error

	events    chan ports.SyncEvent
	closeOnce sync.Once
	stopped   bool
}

func newFakeSynchronizer() *fakeSynchronizer {
	return &fakeSynchronizer{
		accounts:    []ports.Account{{Id: "primary"}},
		executeTxid: "txid-1",
		events:      make(chan ports.SyncEvent, 16),
	}
}

func (f *fakeSynchronizer) Prepare(
	_ context.Context, _ []byte, _ uint64, mode ports.PrepareMode,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepareModes = append(f.prepareModes, mode)
	if len(f.prepareErrs) > 0 {
		err := f.prepareErrs[0]
		f.prepareErrs = f.prepareErrs[1:]
		return err
	}
	return nil
}

func (f *fakeSynchronizer) EstimateBirthday(_ context.Context, _ time.Time) (uint64, error) {
	return f.birthday, nil
}

func (f *fakeSynchronizer) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.startErrs) > 0 {
		err := f.startErrs[0]
		f.startErrs = f.startErrs[1:]
		return err
	}
	return nil
}

func (f *fakeSynchronizer) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.events) })
}

func (f *fakeSynchronizer) Events() <-chan ports.SyncEvent {
	return f.events
}

func (f *fakeSynchronizer) emit(ev ports.SyncEvent) {
	f.events <- ev
}

func (f *fakeSynchronizer) ListAccounts(_ context.Context) ([]ports.Account, error) {
	return f.accounts, nil
}

func (f *fakeSynchronizer) UnifiedAddress(_ context.Context, _ ports.Account) (string, error) {
	return f.unifiedAddr, nil
}

func (f *fakeSynchronizer) TransparentAddress(_ context.Context, _ ports.Account) (string, error) {
	return f.transparentAddr, nil
}

func (f *fakeSynchronizer) ProposeTransfer(
	_ context.Context, _ ports.Account, destination string, amount decimal.Decimal, memo string,
) (*ports.TransferProposal, error) {
	if f.proposeErr != nil {
		return nil, f.proposeErr
	}
	return &ports.TransferProposal{Destination: destination, Amount: amount, Memo: memo}, nil
}

func (f *fakeSynchronizer) ExecuteProposal(
	_ context.Context, _ *ports.TransferProposal, _ []byte,
) (string, error) {
	if f.executeErr != nil {
		return "", f.executeErr
	}
	return f.executeTxid, nil
}

// fakeFactory hands out one synchronizer per build call, recording the
// endpoint each was bound to.
type fakeFactory struct {
	mu        sync.Mutex
	built     []*fakeSynchronizer
	endpoints []domain.Endpoint
	nextErr   error
	prepare   func(sync *fakeSynchronizer)
}

func (f *fakeFactory) factory() ports.SynchronizerFactory {
	return func(
		_ string, endpoint domain.Endpoint, _ domain.Network,
	) (ports.Synchronizer, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.nextErr != nil {
			return nil, f.nextErr
		}
		sync := newFakeSynchronizer()
		if f.prepare != nil {
			f.prepare(sync)
		}
		f.built = append(f.built, sync)
		f.endpoints = append(f.endpoints, endpoint)
		return sync, nil
	}
}

func (f *fakeFactory) last() *fakeSynchronizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.built) == 0 {
		return nil
	}
	return f.built[len(f.built)-1]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.built)
}

type scheduledTask struct {
	delay     time.Duration
	interval  time.Duration
	runs      int
	task      func()
	cancelled bool
}

// fakeScheduler captures scheduled tasks for manual firing, making
// watchdog and confirmation timing deterministic in tests.
type fakeScheduler struct {
	mu        sync.Mutex
	oneShots  []*scheduledTask
	repeating []*scheduledTask
}

func (s *fakeScheduler) Start() {}
func (s *fakeScheduler) Stop()  {}

func (s *fakeScheduler) ScheduleAfter(
	delay time.Duration, task func(),
) (ports.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &scheduledTask{delay: delay, task: task}
	s.oneShots = append(s.oneShots, entry)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry.cancelled = true
	}, nil
}

func (s *fakeScheduler) ScheduleRepeating(
	interval time.Duration, runs int, task func(),
) (ports.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &scheduledTask{interval: interval, runs: runs, task: task}
	s.repeating = append(s.repeating, entry)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry.cancelled = true
	}, nil
}

// fireOneShot runs the i-th one-shot task unless it was cancelled.
func (s *fakeScheduler) fireOneShot(i int) {
	s.mu.Lock()
	if i >= len(s.oneShots) || s.oneShots[i].cancelled {
		s.mu.Unlock()
		return
	}
	task := s.oneShots[i].task
	s.mu.Unlock()
	task()
}

// tickRepeating runs the i-th repeating task times times, honouring the
// run limit it was scheduled with.
func (s *fakeScheduler) tickRepeating(i, times int) {
	s.mu.Lock()
	if i >= len(s.repeating) || s.repeating[i].cancelled {
		s.mu.Unlock()
		return
	}
	entry := s.repeating[i]
	s.mu.Unlock()

	if times > entry.runs {
		times = entry.runs
	}
	for n := 0; n < times; n++ {
		entry.task()
	}
}

func (s *fakeScheduler) oneShotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.oneShots)
}

func (s *fakeScheduler) repeatingCancelled(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return i < len(s.repeating) && s.repeating[i].cancelled
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func (r *memSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, nil
	}
	clone := *r.settings
	return &clone, nil
}

func (r *memSettingsRepo) Upsert(_ context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &settings
	return nil
}

func (r *memSettingsRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = nil
	return nil
}

func (r *memSettingsRepo) Close() {}

type memCredStore struct {
	mu      sync.Mutex
	secrets map[string][]byte
	loadErr error
}

func newMemCredStore() *memCredStore {
	return &memCredStore{secrets: make(map[string][]byte)}
}

func (s *memCredStore) Save(
	_ context.Context, secret []byte, accountId string, _ bool,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[accountId] = secret
	return nil
}

func (s *memCredStore) Load(_ context.Context, accountId string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.secrets[accountId], nil
}

func (s *memCredStore) Delete(_ context.Context, accountId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, accountId)
	return nil
}

// fakeRoutingClient scripts quote/submit/status responses for engine and
// orchestrator tests.
type fakeRoutingClient struct {
	mu sync.Mutex

	quote    *domain.QuoteResponse
	quoteErr error

	intentId  string
	submitErr error
	submits   int

	statuses  []domain.IntentStatus
	statusErr error
	polls     int
}

func (c *fakeRoutingClient) FetchQuote(
	_ context.Context, _ domain.QuoteRequest,
) (*domain.QuoteResponse, error) {
	if c.quoteErr != nil {
		return nil, c.quoteErr
	}
	return c.quote, nil
}

func (c *fakeRoutingClient) SubmitIntent(
	_ context.Context, _ domain.SubmitIntentRequest,
) (*domain.SubmitIntentResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitErr != nil {
		return nil, c.submitErr
	}
	c.submits++
	return &domain.SubmitIntentResponse{IntentId: c.intentId}, nil
}

func (c *fakeRoutingClient) GetStatus(
	_ context.Context, _ string,
) (*domain.IntentStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusErr != nil {
		return nil, c.statusErr
	}
	idx := c.polls
	if idx >= len(c.statuses) {
		idx = len(c.statuses) - 1
	}
	c.polls++
	status := c.statuses[idx]
	return &status, nil
}

func (c *fakeRoutingClient) AvailableChains() []domain.ChainOption {
	return nil
}

// timeoutErr satisfies net.Error to exercise the timeout failure class.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var errBoom = fmt.Errorf("boom")
