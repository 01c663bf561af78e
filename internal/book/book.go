package book

import (
	"errors"
	"time"

	"bookmarket/internal/storage"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is the persisted catalog entity. Records are created exactly once by
// the publish workflow's commit step and never updated or deleted.
type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Price       float64     `json:"price"`
	BookFile    storage.Ref `json:"bookFile"`
	CoverImage  storage.Ref `json:"coverImage"`
	Rating      float64     `json:"rating,omitempty"`
	SalesCount  int         `json:"salesCount,omitempty"`
	PageCount   int         `json:"pageCount,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Validate checks the fields the store requires at creation time. No further
// schema validation is performed.
func (b Book) Validate() error {
	switch {
	case b.Title == "":
		return errors.New("title is required")
	case b.Author == "":
		return errors.New("author is required")
	case b.Description == "":
		return errors.New("description is required")
	case b.Category == "":
		return errors.New("category is required")
	case b.Price < 0:
		return errors.New("price must be non-negative")
	case b.BookFile.URL == "":
		return errors.New("bookFile reference is required")
	case b.CoverImage.URL == "":
		return errors.New("coverImage reference is required")
	}
	return nil
}
