package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultBaseDir = "_uploads"

// LocalStore implements BlobStore on the local file system. Files are
// written under <baseDir>/<storageID>.<ext> and served by the API server
// under urlPrefix.
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore creates a LocalStore rooted at baseDir. If baseDir is empty
// it defaults to "_uploads". urlPrefix is the public path prefix the server
// mounts the directory under, e.g. "/files".
func NewLocalStore(baseDir, urlPrefix string) *LocalStore {
	if baseDir == "" {
		baseDir = defaultBaseDir
	}
	return &LocalStore{baseDir: baseDir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalStore) Save(ctx context.Context, filename string, content io.Reader) (Ref, int64, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, 0, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	storageID := uuid.New().String()

	name := storageID
	if ext != "" {
		name = storageID + "." + ext
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return Ref{}, 0, fmt.Errorf("ensure storage directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return Ref{}, 0, fmt.Errorf("create blob file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, content)
	if err != nil {
		return Ref{}, 0, fmt.Errorf("write blob: %w", err)
	}

	return Ref{
		URL:       path.Join(s.urlPrefix, name),
		StorageID: storageID,
		Format:    ext,
	}, size, nil
}

// Dir returns the directory blobs are written to, for mounting a file server.
func (s *LocalStore) Dir() string {
	return s.baseDir
}
