package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/files")

	ref, size, err := store.Save(context.Background(), "dragon.pdf", strings.NewReader("not really a pdf"))
	require.NoError(t, err)

	assert.Equal(t, int64(len("not really a pdf")), size)
	assert.Equal(t, "pdf", ref.Format)
	assert.NotEmpty(t, ref.StorageID)
	assert.True(t, strings.HasPrefix(ref.URL, "/files/"), "url should live under the public prefix: %s", ref.URL)
	assert.True(t, strings.HasSuffix(ref.URL, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, ref.StorageID+".pdf"))
	require.NoError(t, err)
	assert.Equal(t, "not really a pdf", string(data))
}

func TestLocalStoreSaveNoExtension(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/files")

	ref, _, err := store.Save(context.Background(), "manuscript", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Empty(t, ref.Format)
	assert.Equal(t, "/files/"+ref.StorageID, ref.URL)
}

func TestLocalStoreUniqueIDs(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/files")

	first, _, err := store.Save(context.Background(), "a.epub", strings.NewReader("one"))
	require.NoError(t, err)
	second, _, err := store.Save(context.Background(), "a.epub", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.StorageID, second.StorageID)
	assert.NotEqual(t, first.URL, second.URL)
}
