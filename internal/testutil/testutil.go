package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"bookmarket/internal/book"
	"bookmarket/internal/storage"
)

// TestBook is a fully populated record for handler tests.
var TestBook = book.Book{
	ID:          "test-book-id-789",
	Title:       "Test Book Title",
	Author:      "Test Author",
	Description: "A test book description",
	Category:    "fiction",
	Price:       12.99,
	BookFile:    storage.Ref{URL: "/files/test.pdf", StorageID: "test-ms", Format: "pdf"},
	CoverImage:  storage.Ref{URL: "/files/test.jpg", StorageID: "test-cv", Format: "jpg"},
	CreatedAt:   time.Now(),
}

// NewRequest creates a JSON HTTP request for testing.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewMultipartRequest creates a multipart upload request with a single file
// under the given field name.
func NewMultipartRequest(path, field, filename string, content []byte) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile(field, filename)
	_, _ = part.Write(content)
	_ = writer.Close()

	r := httptest.NewRequest(http.MethodPost, path, &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

// RecordResponse is a decoded HTTP response for assertions.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorder's response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
