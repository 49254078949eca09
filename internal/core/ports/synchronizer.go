package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zordon-wallet/zordon/internal/core/domain"
)

type PrepareMode int

const (
	PrepareExistingWallet PrepareMode = iota
	PrepareNewWallet
)

func (m PrepareMode) String() string {
	if m == PrepareNewWallet {
		return "new"
	}
	return "existing"
}

type Account struct {
	Id string
}

type SyncEventKind int

const (
	EventProgress SyncEventKind = iota
	EventBalance
	EventFoundTx
	EventUpToDate
	EventError
)

type FoundTx struct {
	Txid     string
	Incoming bool
	Amount   decimal.Decimal
}

// SyncEvent is one update emitted by a running synchronizer. Only the
// field matching Kind is meaningful.
type SyncEvent struct {
	Kind     SyncEventKind
	Progress float64
	Balance  decimal.Decimal
	Tx       FoundTx
	Message  string
}

// TransferProposal is an opaque handle to a transfer built by the
// synchronizer SDK. Raw carries SDK-specific payload.
type TransferProposal struct {
	Destination string
	Amount      decimal.Decimal
	Memo        string
	Raw         []byte
}

// Synchronizer abstracts the chain-sync backend SDK: wallet preparation,
// block synchronization and shielded transaction construction all happen
// behind this port. The wire protocol to the backend is the SDK's concern.
type Synchronizer interface {
	Prepare(ctx context.Context, seed []byte, birthday uint64, mode PrepareMode) error
	EstimateBirthday(ctx context.Context, at time.Time) (uint64, error)
	Start(ctx context.Context) error
	Stop()
	// Events returns the stream of sync updates. The channel is closed
	// when the synchronizer stops.
	Events() <-chan SyncEvent
	ListAccounts(ctx context.Context) ([]Account, error)
	UnifiedAddress(ctx context.Context, account Account) (string, error)
	TransparentAddress(ctx context.Context, account Account) (string, error)
	ProposeTransfer(
		ctx context.Context,
		account Account, destination string, amount decimal.Decimal, memo string,
	) (*TransferProposal, error)
	ExecuteProposal(
		ctx context.Context, proposal *TransferProposal, seed []byte,
	) (string, error)
}

// SynchronizerFactory builds a synchronizer bound to one endpoint. The
// sync service calls it again on every failover reconfigure.
type SynchronizerFactory func(
	datadir string, endpoint domain.Endpoint, network domain.Network,
) (Synchronizer, error)
