package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"bookmarket/internal/storage"
)

// UploadError reports a failed upload attempt. It carries the backend's own
// message when one was supplied.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Client sends single files to the storage endpoint. A failed attempt is
// final: there is no retry and no cleanup of files already uploaded.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(baseURL string, rps int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// uploadResponse tolerates the response shapes observed from different
// storage backends: flat url/storageId, cloudinary-style public_id, and the
// nested file object. The canonical storage.Ref is assembled here, at the
// single seam.
type uploadResponse struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Error     string `json:"error"`
	File      *struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	} `json:"file"`
}

func (r uploadResponse) ref() storage.Ref {
	ref := storage.Ref{URL: r.URL, StorageID: r.StorageID, Format: r.Format}
	if ref.StorageID == "" {
		ref.StorageID = r.PublicID
	}
	if r.File != nil {
		if ref.URL == "" {
			ref.URL = r.File.URL
		}
		if ref.StorageID == "" {
			ref.StorageID = r.File.Filename
		}
	}
	return ref
}

// Upload sends the file bytes and returns the backend's durable reference.
// A 2xx status alone is not success: the response's own success flag is
// checked as well.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (storage.Ref, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}
	if err := writer.Close(); err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: err}
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.Error
		if msg == "" {
			msg = "upload failed"
		}
		return storage.Ref{}, &UploadError{
			Message: msg,
			Err:     fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}
	if decodeErr != nil {
		return storage.Ref{}, &UploadError{Message: "upload failed", Err: decodeErr}
	}
	if !decoded.Success {
		msg := decoded.Error
		if msg == "" {
			msg = "upload failed"
		}
		return storage.Ref{}, &UploadError{Message: msg}
	}

	return decoded.ref(), nil
}
