package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/zordon-wallet/zordon/internal/core/domain"
	"github.com/zordon-wallet/zordon/internal/core/ports"
	zerrors "github.com/zordon-wallet/zordon/pkg/errors"
)

const (
	primaryAccountId = "primary"

	defaultWatchdogDelay   = 15 * time.Second
	defaultConfirmInterval = 10 * time.Second
)

var errStaleSession = fmt.Errorf("session superseded")

// ParamsEnsurer makes sure the proving parameters needed by the
// synchronizer SDK are present on disk before preparation.
type ParamsEnsurer interface {
	Ensure(ctx context.Context, dir string) error
}

type SyncServiceOption func(*SyncService)

func WithWatchdogDelay(delay time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		s.watchdogDelay = delay
	}
}

func WithConfirmationInterval(interval time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		s.confirmInterval = interval
	}
}

func WithParamsEnsurer(params ParamsEnsurer) SyncServiceOption {
	return func(s *SyncService) {
		s.params = params
	}
}

// SyncService owns one synchronization session against a chain-sync
// backend: endpoint selection and failover, wallet preparation, block
// sync progress, balance, recent transactions and shielded sends.
//
// All session state is guarded by mu. Background tasks (the stall
// watchdog, the event pump, confirmation watchers) re-check the session
// generation under mu before applying any effect, so a stopped or
// reconfigured session never observes a stale task's writes.
type SyncService struct {
	datadir      string
	settingsRepo domain.SettingsRepository
	credStore    ports.CredentialStore
	newSync      ports.SynchronizerFactory
	scheduler    ports.SchedulerService
	params       ParamsEnsurer

	watchdogDelay   time.Duration
	confirmInterval time.Duration

	mu             sync.Mutex
	state          sessionState
	generation     uint64
	cancelWatchdog ports.CancelFunc
	confirmCancels map[string]ports.CancelFunc
}

type sessionState struct {
	configured         bool
	network            domain.Network
	endpoints          []domain.Endpoint
	index              int
	sync               ports.Synchronizer
	account            *ports.Account
	status             domain.SyncStatus
	unifiedAddress     string
	transparentAddress string
	balance            decimal.Decimal
	recentTxs          []domain.TransactionRecord
}

func NewSyncService(
	datadir string,
	settingsRepo domain.SettingsRepository,
	credStore ports.CredentialStore,
	factory ports.SynchronizerFactory,
	scheduler ports.SchedulerService,
	opts ...SyncServiceOption,
) *SyncService {
	svc := &SyncService{
		datadir:         datadir,
		settingsRepo:    settingsRepo,
		credStore:       credStore,
		newSync:         factory,
		scheduler:       scheduler,
		watchdogDelay:   defaultWatchdogDelay,
		confirmInterval: defaultConfirmInterval,
		state:           sessionState{status: domain.Idle()},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *SyncService) lock() {
	s.mu.Lock()
}

func (s *SyncService) unlock() {
	s.mu.Unlock()
}

// Configure resolves the endpoint candidate list implied by endpointURL,
// initializes local storage, and, when a seed is present in the
// credential store, prepares the wallet and caches its receive
// addresses. It never starts block synchronization.
func (s *SyncService) Configure(ctx context.Context, endpointURL string) error {
	primary, err := domain.EndpointFromURL(endpointURL)
	if err != nil {
		return zerrors.CONFIGURATION_FAILED.Wrap(err)
	}

	network := domain.NetworkMainnet
	if strings.Contains(endpointURL, "testnet") {
		network = domain.NetworkTestnet
	}
	candidates := CandidateEndpoints(primary, network)

	s.lock()
	s.generation++
	gen := s.generation
	s.cancelBackgroundTasksLocked()
	old := s.state.sync
	s.state = sessionState{
		network:   network,
		endpoints: candidates,
		status:    domain.Idle(),
	}
	s.unlock()

	if old != nil {
		old.Stop()
	}

	return s.buildSession(ctx, 0, gen)
}

// buildSession performs the blocking part of a (re)configure against
// candidate index idx, then commits the result iff the session
// generation is still gen.
func (s *SyncService) buildSession(ctx context.Context, idx int, gen uint64) error {
	s.lock()
	if s.generation != gen {
		s.unlock()
		return errStaleSession
	}
	network := s.state.network
	endpoint := s.state.endpoints[idx]
	s.unlock()

	for _, dir := range []string{"fsblocks", "data", "storage"} {
		if err := os.MkdirAll(filepath.Join(s.datadir, dir), 0o755); err != nil {
			return zerrors.CONFIGURATION_FAILED.Wrap(err).
				WithMetadata(zerrors.EndpointMetadata{Host: endpoint.Host, Port: endpoint.Port})
		}
	}
	if s.params != nil {
		if err := s.params.Ensure(ctx, filepath.Join(s.datadir, "params")); err != nil {
			return zerrors.CONFIGURATION_FAILED.Wrap(err).
				WithMetadata(zerrors.EndpointMetadata{Host: endpoint.Host, Port: endpoint.Port})
		}
	}

	syncSvc, err := s.newSync(s.datadir, endpoint, network)
	if err != nil {
		return zerrors.CONFIGURATION_FAILED.Wrap(err).
			WithMetadata(zerrors.EndpointMetadata{Host: endpoint.Host, Port: endpoint.Port})
	}

	account, unifiedAddr, transparentAddr, err := s.prepareWallet(ctx, syncSvc, network)
	if err != nil {
		syncSvc.Stop()
		return err
	}

	s.lock()
	if s.generation != gen {
		s.unlock()
		syncSvc.Stop()
		return errStaleSession
	}
	s.state.configured = true
	s.state.index = idx
	s.state.sync = syncSvc
	s.state.account = account
	s.state.unifiedAddress = unifiedAddr
	s.state.transparentAddress = transparentAddr
	s.unlock()

	log.WithField("endpoint", endpoint.String()).
		WithField("network", network.String()).
		Debug("session configured")
	return nil
}

// prepareWallet runs the seed-dependent part of configure. When no seed
// exists yet the session stays unprepared and sends will fail with
// NO_CREDENTIAL later on.
func (s *SyncService) prepareWallet(
	ctx context.Context, syncSvc ports.Synchronizer, network domain.Network,
) (*ports.Account, string, string, error) {
	seed, err := s.credStore.Load(ctx, primaryAccountId)
	if err != nil {
		return nil, "", "", zerrors.CONFIGURATION_FAILED.Wrap(err)
	}
	if seed == nil {
		return nil, "", "", nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, "", "", zerrors.CONFIGURATION_FAILED.Wrap(err)
	}
	prepared := settings != nil && settings.WalletPrepared

	birthday, err := syncSvc.EstimateBirthday(ctx, time.Now())
	if err != nil {
		birthday = 0
	}
	if floor := network.ActivationHeight(); birthday < floor {
		birthday = floor
	}

	mode := ports.PrepareNewWallet
	if prepared {
		mode = ports.PrepareExistingWallet
	}
	if err := syncSvc.Prepare(ctx, seed, birthday, mode); err != nil {
		if mode != ports.PrepareExistingWallet {
			return nil, "", "", zerrors.CONFIGURATION_FAILED.Wrap(err)
		}
		// First run on this install with an imported seed: retry once
		// as a new wallet before giving up.
		log.WithError(err).Warn("prepare as existing wallet failed, retrying as new")
		if err := syncSvc.Prepare(ctx, seed, birthday, ports.PrepareNewWallet); err != nil {
			return nil, "", "", zerrors.CONFIGURATION_FAILED.Wrap(err)
		}
	}
	if err := s.settingsRepo.Upsert(
		ctx, *domain.NewSettings(network, true),
	); err != nil {
		return nil, "", "", zerrors.CONFIGURATION_FAILED.Wrap(err)
	}

	accounts, err := syncSvc.ListAccounts(ctx)
	if err != nil || len(accounts) == 0 {
		if err != nil {
			log.WithError(err).Warn("failed to list accounts")
		}
		return nil, "", "", nil
	}
	account := accounts[0]

	unifiedAddr, err := syncSvc.UnifiedAddress(ctx, account)
	if err != nil {
		log.WithError(err).Warn("failed to fetch unified address")
	}
	transparentAddr, err := syncSvc.TransparentAddress(ctx, account)
	if err != nil {
		log.WithError(err).Warn("failed to fetch transparent address")
	}

	return &account, unifiedAddr, transparentAddr, nil
}

// StartSync begins block synchronization against the current endpoint.
// A timeout-class start failure triggers a single reconfigure-and-retry
// against the next candidate; the stall watchdog covers the case where
// the start call succeeds but no progress is ever made.
func (s *SyncService) StartSync(ctx context.Context) error {
	s.lock()
	if !s.state.configured || s.state.sync == nil {
		s.unlock()
		return zerrors.NO_ACTIVE_SESSION.New("session not configured")
	}
	gen := s.generation
	syncSvc := s.state.sync
	s.unlock()

	if err := syncSvc.Start(ctx); err != nil {
		if !isTimeoutErr(err) {
			s.setStatus(gen, domain.SyncError(err.Error()))
			return zerrors.CONFIGURATION_FAILED.Wrap(err)
		}
		return s.retryStartOnNextCandidate(ctx, gen, err)
	}

	s.armSyncing(gen, syncSvc)
	return nil
}

// retryStartOnNextCandidate handles a timeout-class start failure: stop
// the current session, reconfigure against the next candidate and retry
// the start exactly once.
func (s *SyncService) retryStartOnNextCandidate(
	ctx context.Context, gen uint64, cause error,
) error {
	s.lock()
	if s.generation != gen {
		s.unlock()
		return errStaleSession
	}
	next, ok := NextEndpoint(s.state.index, len(s.state.endpoints))
	if !ok {
		tried := len(s.state.endpoints)
		s.state.status = domain.SyncError(cause.Error())
		s.unlock()
		return zerrors.ENDPOINT_EXHAUSTED.Wrap(cause).
			WithMetadata(zerrors.EndpointExhaustedMetadata{Tried: tried})
	}
	s.generation++
	gen = s.generation
	old := s.state.sync
	endpoint := s.state.endpoints[next]
	s.unlock()

	log.WithError(cause).
		WithField("endpoint", endpoint.String()).
		Warn("sync start timed out, failing over to next endpoint")

	old.Stop()
	if err := s.buildSession(ctx, next, gen); err != nil {
		s.setStatus(gen, domain.SyncError(err.Error()))
		return err
	}

	s.lock()
	syncSvc := s.state.sync
	tried := len(s.state.endpoints)
	s.unlock()

	if err := syncSvc.Start(ctx); err != nil {
		s.setStatus(gen, domain.SyncError(err.Error()))
		return zerrors.ENDPOINT_EXHAUSTED.Wrap(err).
			WithMetadata(zerrors.EndpointExhaustedMetadata{Tried: tried})
	}

	s.armSyncing(gen, syncSvc)
	return nil
}

// armSyncing transitions the session to syncing(0), starts the event
// pump and arms the stall watchdog. No-op if gen is stale.
func (s *SyncService) armSyncing(gen uint64, syncSvc ports.Synchronizer) {
	s.lock()
	if s.generation != gen {
		s.unlock()
		return
	}
	s.state.status = domain.Syncing(0)

	events := syncSvc.Events()
	go s.pumpEvents(gen, events)

	cancel, err := s.scheduler.ScheduleAfter(s.watchdogDelay, func() {
		s.onWatchdog(gen)
	})
	if err != nil {
		log.WithError(err).Warn("failed to arm sync watchdog")
	} else {
		s.cancelWatchdog = cancel
	}
	s.unlock()
}

// onWatchdog fires once per syncing run. If the session is still at zero
// progress it hot-swaps the backend endpoint via a full reconfigure;
// with no fallback left it leaves the status untouched.
func (s *SyncService) onWatchdog(gen uint64) {
	s.lock()
	if s.generation != gen {
		s.unlock()
		return
	}
	s.cancelWatchdog = nil
	if s.state.status.Kind != domain.StatusSyncing || s.state.status.Progress > 0 {
		s.unlock()
		return
	}
	next, ok := NextEndpoint(s.state.index, len(s.state.endpoints))
	if !ok {
		s.unlock()
		log.Warn("sync stalled with no fallback endpoint left")
		return
	}
	s.generation++
	newGen := s.generation
	old := s.state.sync
	endpoint := s.state.endpoints[next]
	s.unlock()

	log.WithField("endpoint", endpoint.String()).
		Warn("sync stalled, reconfiguring against fallback endpoint")

	old.Stop()
	ctx := context.Background()
	if err := s.buildSession(ctx, next, newGen); err != nil {
		if errors.Is(err, errStaleSession) {
			return
		}
		log.WithError(err).Error("watchdog reconfigure failed")
		return
	}

	s.lock()
	if s.generation != newGen {
		s.unlock()
		return
	}
	syncSvc := s.state.sync
	s.unlock()

	if err := syncSvc.Start(ctx); err != nil {
		log.WithError(err).Error("watchdog restart failed")
		s.setStatus(newGen, domain.SyncError(err.Error()))
		return
	}
	s.armSyncing(newGen, syncSvc)
}

// StopSync cancels the watchdog and any confirmation watchers, halts the
// backend session and returns the status to idle. Safe from any state.
func (s *SyncService) StopSync() {
	s.lock()
	s.generation++
	s.cancelBackgroundTasksLocked()
	syncSvc := s.state.sync
	s.state.status = domain.Idle()
	s.unlock()

	if syncSvc != nil {
		syncSvc.Stop()
	}
}

func (s *SyncService) cancelBackgroundTasksLocked() {
	if s.cancelWatchdog != nil {
		s.cancelWatchdog()
		s.cancelWatchdog = nil
	}
	for _, cancel := range s.confirmCancels {
		cancel()
	}
	s.confirmCancels = nil
}

// releaseConfirmWatcherLocked pops the cancel handle of txid's watcher.
// The caller invokes the returned func, if any, after dropping mu.
func (s *SyncService) releaseConfirmWatcherLocked(txid string) ports.CancelFunc {
	cancel, ok := s.confirmCancels[txid]
	if !ok {
		return nil
	}
	delete(s.confirmCancels, txid)
	return cancel
}

// SendShielded builds, signs and broadcasts a shielded transfer, records
// it at the head of the recent-transactions list and starts a bounded
// confirmation watcher for it.
func (s *SyncService) SendShielded(
	ctx context.Context, destination string, amount decimal.Decimal, memo string,
) (string, error) {
	s.lock()
	if !s.state.configured || s.state.sync == nil {
		s.unlock()
		return "", zerrors.NO_ACTIVE_SESSION.New("session not configured")
	}
	if s.state.account == nil {
		s.unlock()
		return "", zerrors.NO_ACCOUNT.New("no account derived yet")
	}
	gen := s.generation
	syncSvc := s.state.sync
	account := *s.state.account
	s.unlock()

	proposal, err := syncSvc.ProposeTransfer(ctx, account, destination, amount, memo)
	if err != nil {
		return "", zerrors.INTERNAL_ERROR.Wrap(err)
	}

	seed, err := s.credStore.Load(ctx, primaryAccountId)
	if err != nil {
		return "", zerrors.INTERNAL_ERROR.Wrap(err)
	}
	if seed == nil {
		return "", zerrors.NO_CREDENTIAL.New("no seed stored for account %s", primaryAccountId).
			WithMetadata(zerrors.AccountMetadata{AccountId: primaryAccountId})
	}

	txid, err := syncSvc.ExecuteProposal(ctx, proposal, seed)
	if err != nil {
		return "", zerrors.INTERNAL_ERROR.Wrap(err)
	}

	s.lock()
	var replaced ports.CancelFunc
	if s.generation == gen {
		s.state.recentTxs = append([]domain.TransactionRecord{{
			Txid:   txid,
			Amount: amount,
		}}, s.state.recentTxs...)

		cancel, err := s.scheduler.ScheduleRepeating(
			s.confirmInterval, domain.MaxConfirmations, func() {
				s.bumpConfirmations(txid)
			},
		)
		if err != nil {
			log.WithError(err).Warn("failed to start confirmation watcher")
		} else {
			replaced = s.releaseConfirmWatcherLocked(txid)
			if s.confirmCancels == nil {
				s.confirmCancels = make(map[string]ports.CancelFunc)
			}
			s.confirmCancels[txid] = cancel
		}
	}
	s.unlock()
	if replaced != nil {
		replaced()
	}

	log.WithField("txid", txid).Debug("shielded transfer broadcast")
	return txid, nil
}

func (s *SyncService) bumpConfirmations(txid string) {
	var done ports.CancelFunc
	s.lock()
	for i := range s.state.recentTxs {
		if s.state.recentTxs[i].Txid != txid {
			continue
		}
		if s.state.recentTxs[i].Confirmations < domain.MaxConfirmations {
			s.state.recentTxs[i].Confirmations++
		}
		// watcher is done once the cap is reached, drop its handle
		if s.state.recentTxs[i].Confirmations >= domain.MaxConfirmations {
			done = s.releaseConfirmWatcherLocked(txid)
		}
		break
	}
	s.unlock()
	if done != nil {
		done()
	}
}

// pumpEvents is the single state-update path for synchronizer events.
// It exits when the event channel closes or the session generation
// moves on.
func (s *SyncService) pumpEvents(gen uint64, events <-chan ports.SyncEvent) {
	for ev := range events {
		s.lock()
		if s.generation != gen {
			s.unlock()
			return
		}
		s.applyEventLocked(ev)
		s.unlock()
	}
}

func (s *SyncService) applyEventLocked(ev ports.SyncEvent) {
	switch ev.Kind {
	case ports.EventProgress:
		if s.state.status.Kind != domain.StatusSyncing {
			return
		}
		// Progress is monotone within a run; stale SDK callbacks are
		// dropped.
		if ev.Progress > s.state.status.Progress {
			s.state.status = domain.Syncing(ev.Progress)
		}
	case ports.EventBalance:
		if ev.Balance.IsNegative() {
			log.Warnf("ignoring negative balance update: %s", ev.Balance)
			return
		}
		s.state.balance = ev.Balance
	case ports.EventFoundTx:
		for _, tx := range s.state.recentTxs {
			if tx.Txid == ev.Tx.Txid {
				return
			}
		}
		s.state.recentTxs = append([]domain.TransactionRecord{{
			Txid:     ev.Tx.Txid,
			Incoming: ev.Tx.Incoming,
			Amount:   ev.Tx.Amount,
		}}, s.state.recentTxs...)
	case ports.EventUpToDate:
		s.state.status = domain.UpToDate()
	case ports.EventError:
		s.state.status = domain.SyncError(ev.Message)
	}
}

func (s *SyncService) setStatus(gen uint64, status domain.SyncStatus) {
	s.lock()
	defer s.unlock()
	if s.generation != gen {
		return
	}
	s.state.status = status
}

// Snapshot returns a consistent copy of the session read model.
func (s *SyncService) Snapshot() domain.SyncSession {
	s.lock()
	defer s.unlock()

	endpoints := make([]domain.Endpoint, len(s.state.endpoints))
	copy(endpoints, s.state.endpoints)
	recentTxs := make([]domain.TransactionRecord, len(s.state.recentTxs))
	copy(recentTxs, s.state.recentTxs)

	return domain.SyncSession{
		Network:            s.state.network,
		Endpoints:          endpoints,
		EndpointIndex:      s.state.index,
		Status:             s.state.status,
		UnifiedAddress:     s.state.unifiedAddress,
		TransparentAddress: s.state.transparentAddress,
		Balance:            s.state.balance,
		RecentTransactions: recentTxs,
	}
}

func (s *SyncService) Status() domain.SyncStatus {
	s.lock()
	defer s.unlock()
	return s.state.status
}

// isTimeoutErr recognizes the backend-timeout failure class that
// warrants trying the next endpoint instead of surfacing an error.
func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if st, ok := grpcstatus.FromError(err); ok {
		switch st.Code() {
		case grpccodes.DeadlineExceeded, grpccodes.Unavailable:
			return true
		}
	}
	return false
}
