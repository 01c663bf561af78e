// Package catalog provides the HTTP client for the books endpoints, used by
// the author-side publish workflow and the reader-side browse session.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookmarket/internal/book"
)

// ErrNotFound is returned when the server reports no book with the given id.
var ErrNotFound = errors.New("book not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
	}
}

// envelope matches the {success, book|books, error} wire shape.
type envelope struct {
	Success bool        `json:"success"`
	Book    *book.Book  `json:"book"`
	Books   []book.Book `json:"books"`
	Error   string      `json:"error"`
}

// CreateBook submits a record for persistence. The server assigns id and
// createdAt and returns the stored form.
func (c *Client) CreateBook(ctx context.Context, b book.Book) (book.Book, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return book.Book{}, fmt.Errorf("encode book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/books", bytes.NewReader(payload))
	if err != nil {
		return book.Book{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	env, err := c.do(req)
	if err != nil {
		return book.Book{}, err
	}
	if env.Book == nil {
		return book.Book{}, errors.New("save book: response missing book")
	}
	return *env.Book, nil
}

// ListBooks fetches the full catalog, newest first.
func (c *Client) ListBooks(ctx context.Context) ([]book.Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books", nil)
	if err != nil {
		return nil, err
	}

	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return env.Books, nil
}

// GetBook fetches a single record by id.
func (c *Client) GetBook(ctx context.Context, id string) (book.Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/books/"+id, nil)
	if err != nil {
		return book.Book{}, err
	}

	env, err := c.do(req)
	if err != nil {
		return book.Book{}, err
	}
	if env.Book == nil {
		return book.Book{}, ErrNotFound
	}
	return *env.Book, nil
}

func (c *Client) do(req *http.Request) (envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusNotFound {
		return envelope{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if env.Error != "" {
			return envelope{}, errors.New(env.Error)
		}
		return envelope{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return envelope{}, decodeErr
	}
	if !env.Success {
		if env.Error != "" {
			return envelope{}, errors.New(env.Error)
		}
		return envelope{}, errors.New("request failed")
	}
	return env, nil
}
