package envunlocker

import (
	"context"
	"fmt"

	"github.com/zordon-wallet/zordon/internal/core/ports"
)

type service struct {
	password string
}

func NewService(password string) (ports.Unlocker, error) {
	if len(password) <= 0 {
		return nil, fmt.Errorf("missing unlocker password")
	}
	return &service{password}, nil
}

func (s *service) Password(_ context.Context) (string, error) {
	return s.password, nil
}
