package ports

import "context"

// Unlocker provides the passphrase gating access to locally-present
// credentials. It stands in for platform local-presence checks on
// headless targets.
type Unlocker interface {
	Password(ctx context.Context) (string, error)
}
