package keystore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/securepass/internal/client/storage"
	"github.com/dmitrijs2005/securepass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func newFile(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "vault"))
	require.NoError(t, err)
	return s
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": newSQLite(t),
		"file":   newFile(t),
		"memory": NewMemoryStore(),
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := s.Get(ctx, "securepass.pass.payload")
			require.NoError(t, err)
			require.Nil(t, v, "absent value must be (nil, nil)")

			require.NoError(t, s.Put(ctx, "securepass.pass.payload", []byte("old")))
			require.NoError(t, s.Put(ctx, "securepass.pass.payload", []byte("new")))

			v, err = s.Get(ctx, "securepass.pass.payload")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), v)

			require.NoError(t, s.Put(ctx, "securepass.encryption.key", []byte{0x00, 0xFF}))
			v, err = s.Get(ctx, "securepass.encryption.key")
			require.NoError(t, err)
			assert.Equal(t, []byte{0x00, 0xFF}, v)

			err = s.Put(ctx, "../escape", []byte("x"))
			require.ErrorIs(t, err, common.ErrStorageWriteFailed)
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", in))
	in[0] = 'X'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), out)

	out[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestSQLiteStore_FailedPutKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)

	require.NoError(t, s.Put(ctx, "k", []byte("old")))

	_, err := s.db.ExecContext(ctx, `
CREATE TRIGGER reject_insert BEFORE INSERT ON secrets
BEGIN
  SELECT RAISE(ABORT, 'rejected');
END;`)
	require.NoError(t, err)

	err = s.Put(ctx, "k", []byte("new"))
	require.ErrorIs(t, err, common.ErrStorageWriteFailed)

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("old"), v)
}

func TestSQLiteStore_EmptyValueIsNotAbsent(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t)

	require.NoError(t, s.Put(ctx, "k", nil))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM secrets WHERE name = 'k'`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions only")
	}
	ctx := context.Background()
	s := newFile(t)

	require.NoError(t, s.Put(ctx, "k", []byte("v")))

	fi, err := os.Stat(filepath.Join(s.dir, "k"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	di, err := os.Stat(s.dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), di.Mode().Perm())
}

func TestFileStore_GetRejectsBadName(t *testing.T) {
	s := newFile(t)
	_, err := s.Get(context.Background(), "a/b")
	require.Error(t, err)
}

func TestFileStore_CanceledContext(t *testing.T) {
	s := newFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Put(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, common.ErrStorageWriteFailed)
}

func TestValidName(t *testing.T) {
	for _, n := range []string{"securepass.encryption.key", "a-b_c.1"} {
		assert.True(t, ValidName(n), n)
	}
	for _, n := range []string{"", ".", "..", "a/b", "a b", `a\b`} {
		assert.False(t, ValidName(n), n)
	}
}
