package storage

import (
	"context"
	"io"
)

// Ref is the durable handle a storage backend returns for an uploaded file.
// The record layer stores refs, never file bytes.
type Ref struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
	Format    string `json:"format,omitempty"`
}

// BlobStore defines the contract for persisting raw file bytes.
type BlobStore interface {
	// Save stores the content and returns a Ref pointing at it. The
	// original filename is used only to derive the stored extension.
	Save(ctx context.Context, filename string, content io.Reader) (Ref, int64, error)
}
