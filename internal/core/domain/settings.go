package domain

import "time"

// Settings holds the process-wide persisted flags consumed by the sync
// service: the selected network and whether this installation already
// prepared a wallet. The prepared flag is keyed by installation, not by
// seed.
type Settings struct {
	Network        Network
	WalletPrepared bool
	UpdatedAt      time.Time
}

func NewSettings(network Network, walletPrepared bool) *Settings {
	return &Settings{
		Network:        network,
		WalletPrepared: walletPrepared,
		UpdatedAt:      time.Now(),
	}
}
