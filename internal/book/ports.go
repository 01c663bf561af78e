package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	// Create stores a new record and returns the stored form with the
	// assigned id and creation time.
	Create(ctx context.Context, b Book) (Book, error)
	// List returns all records ordered by creation time, newest first.
	List(ctx context.Context) ([]Book, error)
	// GetByID returns ErrNotFound when no record has the given id.
	GetByID(ctx context.Context, id string) (Book, error)
}
