package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadrahub/chaveamento/models"
)

func TestFileStoreLoadAbsentFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "tournament.json"))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EmptySnapshot(), snap)
}

func TestFileStoreSaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "tournament.json")
	store := NewFileStore(path)

	snap := models.EmptySnapshot()
	snap.Modality = models.ModalityVolei
	snap.TeamsByModality[models.ModalityVolei] = []string{"A", "B"}
	snap.LockedByModality[models.ModalityVolei] = true

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tournament.json")
	store := NewFileStore(path)

	first := models.EmptySnapshot()
	first.TeamsByModality[models.ModalityFutsal] = []string{"Old"}
	require.NoError(t, store.Save(ctx, first))

	second := models.EmptySnapshot()
	second.TeamsByModality[models.ModalityFutsal] = []string{"New"}
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, loaded.TeamsByModality[models.ModalityFutsal])

	// No temp files linger after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tournament.json", entries[0].Name())
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tournament.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
