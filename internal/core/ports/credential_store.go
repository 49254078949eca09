package ports

import "context"

// CredentialStore persists opaque wallet secrets keyed by account id.
// Load returns (nil, nil) when no secret exists for the account; errors
// are reserved for access failures. Records saved with
// requireLocalPresence must only be readable after a local-presence
// check (platform biometrics, unlocker passphrase, ...).
type CredentialStore interface {
	Save(ctx context.Context, secret []byte, accountId string, requireLocalPresence bool) error
	Load(ctx context.Context, accountId string) ([]byte, error)
	Delete(ctx context.Context, accountId string) error
}
