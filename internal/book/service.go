package book

import (
	"context"
	"fmt"
)

// Service provides catalog business logic on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the required fields and stores the record.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	if err := b.Validate(); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return s.repo.Create(ctx, b)
}

// List returns the full catalog, newest first.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single book by its identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}
