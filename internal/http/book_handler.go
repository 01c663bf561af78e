package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookmarket/internal/book"
	"bookmarket/internal/httpx"
	"bookmarket/internal/storage"
)

type BookHandler struct {
	svc *book.Service
}

func NewBookHandler(svc *book.Service) *BookHandler {
	return &BookHandler{svc: svc}
}

type createBookRequest struct {
	Title       string      `json:"title" validate:"required"`
	Author      string      `json:"author" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Category    string      `json:"category" validate:"required"`
	Price       float64     `json:"price" validate:"gte=0"`
	BookFile    storage.Ref `json:"bookFile"`
	CoverImage  storage.Ref `json:"coverImage"`
	Rating      float64     `json:"rating"`
	SalesCount  int         `json:"salesCount"`
	PageCount   int         `json:"pageCount"`
}

// Create persists a new record. The id and creation time are assigned here;
// the client never supplies them.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fieldErrors := ValidateStruct(req)
	if req.BookFile.URL == "" {
		fieldErrors = append(fieldErrors, ValidationError{Field: "bookFile", Message: "bookFile is required"})
	}
	if req.CoverImage.URL == "" {
		fieldErrors = append(fieldErrors, ValidationError{Field: "coverImage", Message: "coverImage is required"})
	}
	if len(fieldErrors) > 0 {
		msgs := make([]string, len(fieldErrors))
		for i, fe := range fieldErrors {
			msgs[i] = fe.Message
		}
		httpx.JSONError(w, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}

	stored, err := h.svc.Create(r.Context(), book.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		BookFile:    req.BookFile,
		CoverImage:  req.CoverImage,
		Rating:      req.Rating,
		SalesCount:  req.SalesCount,
		PageCount:   req.PageCount,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed to save book")
		return
	}

	httpx.JSONSuccess(w, http.StatusCreated, map[string]any{"book": stored})
}

// List returns the full catalog, newest first.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed to get books")
		return
	}
	if books == nil {
		books = []book.Book{}
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"books": books})
}

// GetByID returns a single record.
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/books/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		httpx.JSONError(w, http.StatusNotFound, "book not found")
		return
	}

	b, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed to get book")
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"book": b})
}
