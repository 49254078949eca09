package fileunlocker

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type service struct {
	filePath string
}

func NewService(filePath string) (*service, error) {
	if len(filePath) <= 0 {
		return nil, fmt.Errorf("missing unlocker file path")
	}
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("invalid unlocker file path: %s", err)
	}
	return &service{filePath}, nil
}

func (s *service) Password(_ context.Context) (string, error) {
	buf, err := os.ReadFile(s.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read unlocker file: %s", err)
	}
	return strings.TrimSpace(string(buf)), nil
}
