package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarket/internal/storage"
	"bookmarket/internal/testutil"
)

func TestUploadHandler(t *testing.T) {
	handler := NewUploadHandler(storage.NewLocalStore(t.TempDir(), "/files"))

	r := testutil.NewMultipartRequest("/api/upload", "file", "book.pdf", []byte("manuscript bytes"))
	w := httptest.NewRecorder()
	handler.Upload(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, resp.Body["success"])

	url, _ := resp.Body["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/files/"))
	assert.NotEmpty(t, resp.Body["storageId"])
	assert.Equal(t, "pdf", resp.Body["format"])
	assert.Equal(t, float64(len("manuscript bytes")), resp.Body["size"])
}

func TestUploadHandlerNoFile(t *testing.T) {
	handler := NewUploadHandler(storage.NewLocalStore(t.TempDir(), "/files"))

	// Wrong field name: the handler only reads "file".
	r := testutil.NewMultipartRequest("/api/upload", "attachment", "book.pdf", []byte("x"))
	w := httptest.NewRecorder()
	handler.Upload(w, r)

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, false, resp.Body["success"])
	assert.Equal(t, "no file uploaded", resp.Body["error"])
}

func TestMethodMux(t *testing.T) {
	handler := MethodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
