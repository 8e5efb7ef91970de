package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/dmitrijs2005/securepass/internal/filex"
)

// FileStore keeps one 0600 file per logical name inside a 0700 directory.
// Replacement goes through filex.WriteFileAtomic.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("invalid name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secret[%s]: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, name string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageWriteFailed, err)
	}
	p, err := s.path(name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageWriteFailed, err)
	}

	if err := filex.WriteFileAtomic(p, value, filex.PrivateFilePerm); err != nil {
		return fmt.Errorf("%w: secret[%s]: %v", common.ErrStorageWriteFailed, name, err)
	}
	return nil
}
