package keystore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/securepass/internal/common"
)

// MemoryStore is a process-local Store. Values are copied on the way in
// and out so callers cannot alias stored bytes.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[name]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (s *MemoryStore) Put(_ context.Context, name string, value []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: invalid name %q", common.ErrStorageWriteFailed, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[name] = v
	return nil
}
