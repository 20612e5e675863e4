package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peopleops/intake/pkg/adapters/file"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/peopleops/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunSessionStoreContract(t, store)
}

func TestFileStore_CreatesDirectoryOnSave(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "sessions")
	store := file.NewStore(base)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	session := domain.NewSession("sess-1", "leave-intake", "emp-42", "step-leave-type", now)
	require.NoError(t, store.Save(ctx, "thread-1", session))

	info, err := os.Stat(filepath.Join(base, "thread-1.json"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	store := file.NewStore(base)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	session := domain.NewSession("sess-1", "leave-intake", "emp-42", "step-leave-type", now)
	require.NoError(t, store.Save(ctx, "thread-1", session))
	require.NoError(t, store.Save(ctx, "thread-1", session))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "thread-1.json", entries[0].Name())
}

func TestFileStore_ListIgnoresNonJSON(t *testing.T) {
	base := t.TempDir()
	store := file.NewStore(base)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "thread-1", domain.NewSession("s1", "leave-intake", "emp-1", "step-leave-type", now)))
	require.NoError(t, os.WriteFile(filepath.Join(base, "README.md"), []byte("notes"), 0o644))

	threads, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"thread-1"}, threads)
}
