package http

import (
	"net/http"

	"bookmarket/internal/httpx"
	"bookmarket/internal/storage"
)

type UploadHandler struct {
	blobs storage.BlobStore
}

func NewUploadHandler(blobs storage.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Upload accepts a single multipart file under the "file" field and returns
// the stored reference. Callers must check the success flag: failures after
// this point also come back as JSON.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	ref, size, err := h.blobs.Save(r.Context(), header.Filename, file)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	httpx.JSONSuccess(w, http.StatusOK, map[string]any{
		"url":       ref.URL,
		"storageId": ref.StorageID,
		"format":    ref.Format,
		"size":      size,
	})
}
