package credstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/zordon-wallet/zordon/internal/core/ports"
)

const credentialStoreDir = "credentials"

// credential is the stored record. RequireLocalPresence marks records
// whose secret is encrypted with the unlocker passphrase; records saved
// without it are stored in the clear, protected by disk permissions
// only.
type credential struct {
	AccountId            string `badgerhold:"key"`
	Secret               []byte
	RequireLocalPresence bool
}

type service struct {
	store    *badgerhold.Store
	unlocker ports.Unlocker
}

// New opens the credential store under baseDir. An empty baseDir opens
// an in-memory store. The unlocker is only consulted for records saved
// with requireLocalPresence; it may be nil when no such record is used.
func New(baseDir string, logger badger.Logger, unlocker ports.Unlocker) (ports.CredentialStore, error) {
	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, credentialStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %s", err)
	}

	return &service{store: store, unlocker: unlocker}, nil
}

func (s *service) Save(
	ctx context.Context, secret []byte, accountId string, requireLocalPresence bool,
) error {
	if len(secret) == 0 {
		return fmt.Errorf("missing secret")
	}
	if len(accountId) == 0 {
		return fmt.Errorf("missing account id")
	}

	stored := secret
	if requireLocalPresence {
		password, err := s.password(ctx)
		if err != nil {
			return err
		}
		stored, err = encrypt(secret, password)
		if err != nil {
			return fmt.Errorf("failed to encrypt secret: %s", err)
		}
	}

	return s.store.Upsert(accountId, &credential{
		AccountId:            accountId,
		Secret:               stored,
		RequireLocalPresence: requireLocalPresence,
	})
}

func (s *service) Load(ctx context.Context, accountId string) ([]byte, error) {
	var cred credential
	err := s.store.Get(accountId, &cred)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %s", err)
	}

	if !cred.RequireLocalPresence {
		return cred.Secret, nil
	}

	password, err := s.password(ctx)
	if err != nil {
		return nil, err
	}
	secret, err := decrypt(cred.Secret, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret: %s", err)
	}
	return secret, nil
}

func (s *service) Delete(ctx context.Context, accountId string) error {
	var cred credential
	if err := s.store.Delete(accountId, &cred); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *service) password(ctx context.Context) (string, error) {
	if s.unlocker == nil {
		return "", fmt.Errorf("no unlocker configured for local-presence credential")
	}
	return s.unlocker.Password(ctx)
}
