package http

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarket/internal/book"
	"bookmarket/internal/catalog"
	"bookmarket/internal/publish"
	"bookmarket/internal/session"
	"bookmarket/internal/storage"
	"bookmarket/internal/upload"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

// startServer brings up the full API surface over an in-memory repo and a
// temp-dir blob store.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	blobDir := t.TempDir()
	router := NewRouter(RouterConfig{
		Books:   book.NewService(book.NewMemoryRepo()),
		Blobs:   storage.NewLocalStore(blobDir, "/files"),
		BlobDir: blobDir,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func stageDraft(t *testing.T, server *httptest.Server, title string) *publish.Workflow {
	t.Helper()
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(coverPath, pngHeader, 0o644))
	manuscriptPath := filepath.Join(dir, "book.pdf")
	require.NoError(t, os.WriteFile(manuscriptPath, []byte("%PDF-1.4 content"), 0o644))

	w := publish.NewWorkflow(
		upload.NewValidator(upload.DefaultLimits()),
		upload.NewClient(server.URL, 10),
		catalog.NewClient(server.URL),
	)
	require.NoError(t, w.SetMetadata(publish.Metadata{
		Title:       title,
		Author:      "R. Wyvern",
		Description: "An accountant discovers her firm audits dragons.",
		Category:    "fiction",
		Price:       "12.99",
	}))
	require.NoError(t, w.AttachFiles(coverPath, manuscriptPath))
	return w
}

func TestPublishThenBrowseRoundTrip(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	w := stageDraft(t, server, "The Dragon Ledger")
	stored, err := w.Publish(ctx)
	require.NoError(t, err)
	require.Equal(t, publish.StateDone, w.State())

	assert.NotEmpty(t, stored.ID)
	assert.NotEmpty(t, stored.BookFile.URL)
	assert.NotEmpty(t, stored.CoverImage.URL)
	assert.NotEqual(t, stored.BookFile.StorageID, stored.CoverImage.StorageID)

	// The reader side sees the published record through the catalog.
	reader := session.NewSession(catalog.NewClient(server.URL), session.NewFileKV(t.TempDir()))
	require.NoError(t, reader.Start(ctx))

	books := reader.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "The Dragon Ledger", books[0].Title)
	assert.Equal(t, stored.BookFile.URL, books[0].BookFile.URL)

	require.NoError(t, reader.AddToCart(books[0]))
	items, err := reader.Checkout()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestPublishedOrderIsNewestFirst(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		w := stageDraft(t, server, title)
		_, err := w.Publish(ctx)
		require.NoError(t, err)
	}

	client := catalog.NewClient(server.URL)
	books, err := client.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "third", books[0].Title)
	assert.Equal(t, "first", books[2].Title)
}

func TestGetBookByIDOverWire(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	w := stageDraft(t, server, "Lookup Me")
	stored, err := w.Publish(ctx)
	require.NoError(t, err)

	client := catalog.NewClient(server.URL)
	got, err := client.GetBook(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lookup Me", got.Title)

	_, err = client.GetBook(ctx, "no-such-id")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
