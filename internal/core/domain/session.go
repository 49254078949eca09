package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SyncStatusKind int

const (
	StatusIdle SyncStatusKind = iota
	StatusSyncing
	StatusUpToDate
	StatusError
)

// SyncStatus is the single source of truth for what a session is doing.
// Progress is only meaningful while Kind is StatusSyncing, Message only
// while Kind is StatusError.
type SyncStatus struct {
	Kind     SyncStatusKind
	Progress float64
	Message  string
}

func Idle() SyncStatus {
	return SyncStatus{Kind: StatusIdle}
}

func Syncing(progress float64) SyncStatus {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return SyncStatus{Kind: StatusSyncing, Progress: progress}
}

func UpToDate() SyncStatus {
	return SyncStatus{Kind: StatusUpToDate}
}

func SyncError(message string) SyncStatus {
	return SyncStatus{Kind: StatusError, Message: message}
}

func (s SyncStatus) String() string {
	switch s.Kind {
	case StatusSyncing:
		return fmt.Sprintf("syncing (%.0f%%)", s.Progress*100)
	case StatusUpToDate:
		return "up to date"
	case StatusError:
		return fmt.Sprintf("error: %s", s.Message)
	default:
		return "idle"
	}
}

// TransactionRecord is one entry of a session's recent-transactions list.
// Everything but Confirmations is immutable once created; Confirmations
// only ever grows, up to MaxConfirmations.
type TransactionRecord struct {
	Txid          string
	Incoming      bool
	Amount        decimal.Decimal
	Confirmations int
}

const MaxConfirmations = 10

// SyncSession is a consistent snapshot of one configured network session.
// It is a read model: mutations happen only inside the sync service.
type SyncSession struct {
	Network            Network
	Endpoints          []Endpoint
	EndpointIndex      int
	Status             SyncStatus
	UnifiedAddress     string
	TransparentAddress string
	Balance            decimal.Decimal
	RecentTransactions []TransactionRecord
}

func (s SyncSession) CurrentEndpoint() Endpoint {
	if s.EndpointIndex < 0 || s.EndpointIndex >= len(s.Endpoints) {
		return Endpoint{}
	}
	return s.Endpoints[s.EndpointIndex]
}
