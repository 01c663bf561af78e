package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClientUploadSuccess(t *testing.T) {
	var gotField string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotField = header.Filename
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, file)
		gotBody = buf.String()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"url":"/files/abc.pdf","storageId":"abc","format":"pdf"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10)
	ref, err := client.Upload(context.Background(), "book.pdf", strings.NewReader("manuscript bytes"))
	require.NoError(t, err)

	assert.Equal(t, "book.pdf", gotField)
	assert.Equal(t, "manuscript bytes", gotBody)
	assert.Equal(t, "/files/abc.pdf", ref.URL)
	assert.Equal(t, "abc", ref.StorageID)
	assert.Equal(t, "pdf", ref.Format)
}

func TestClientUploadAdaptsVariantShapes(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantURL       string
		wantStorageID string
	}{
		{
			name:          "cloudinary public_id",
			body:          `{"success":true,"url":"https://res.example.com/x.pdf","public_id":"bookstore/x","format":"pdf"}`,
			wantURL:       "https://res.example.com/x.pdf",
			wantStorageID: "bookstore/x",
		},
		{
			name:          "nested file object",
			body:          `{"success":true,"file":{"url":"/uploads/y.epub","filename":"y.epub"}}`,
			wantURL:       "/uploads/y.epub",
			wantStorageID: "y.epub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, 10)
			ref, err := client.Upload(context.Background(), "f", strings.NewReader("x"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, ref.URL)
			assert.Equal(t, tt.wantStorageID, ref.StorageID)
		})
	}
}

func TestClientUploadApplicationLevelFailure(t *testing.T) {
	// HTTP 200 but success:false still fails the upload.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"bucket quota exceeded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10)
	_, err := client.Upload(context.Background(), "f", strings.NewReader("x"))
	require.Error(t, err)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "bucket quota exceeded", uploadErr.Message)
}

func TestClientUploadServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"disk full"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 10)
	_, err := client.Upload(context.Background(), "f", strings.NewReader("x"))
	require.Error(t, err)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "disk full", uploadErr.Message)
	assert.Equal(t, 1, calls, "a failed upload is not retried")
}

func TestClientUploadGenericMessageWhenBackendSilent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 10)
	_, err := client.Upload(context.Background(), "f", strings.NewReader("x"))

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "upload failed", uploadErr.Message)
}

func TestClientUploadTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, 10)
	_, err := client.Upload(context.Background(), "f", strings.NewReader("x"))

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "upload failed", uploadErr.Message)
	assert.Error(t, uploadErr.Unwrap())
}
