package http

import (
	"net/http"

	"bookmarket/internal/book"
	"bookmarket/internal/storage"
)

// RouterConfig carries the dependencies the API routes need.
type RouterConfig struct {
	Books *book.Service
	Blobs storage.BlobStore
	// BlobDir, when set, is mounted read-only under /files/.
	BlobDir string
	// Ready reports whether the backing store is reachable, for /readyz.
	Ready func(r *http.Request) error
}

// NewRouter assembles the API surface: upload, books CRUD, stored files,
// and the health probes.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	bookHandler := NewBookHandler(cfg.Books)
	uploadHandler := NewUploadHandler(cfg.Blobs)

	mux := http.NewServeMux()

	mux.Handle("/api/upload", MethodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(uploadHandler.Upload),
	}))

	mux.Handle("/api/books", MethodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(bookHandler.List),
		http.MethodPost: http.HandlerFunc(bookHandler.Create),
	}))

	mux.Handle("/api/books/", MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(bookHandler.GetByID),
	}))

	if cfg.BlobDir != "" {
		mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.BlobDir))))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux
}
