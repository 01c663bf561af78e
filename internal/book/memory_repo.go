package book

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repository used by tests and by the server when
// no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	books []Book
	last  time.Time
	// clock is overridable so tests can control creation times.
	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{clock: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, b Book) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.New().String()
	b.CreatedAt = r.clock()
	// Creation times must be strictly increasing for list ordering.
	if !b.CreatedAt.After(r.last) {
		b.CreatedAt = r.last.Add(time.Nanosecond)
	}
	r.last = b.CreatedAt
	r.books = append(r.books, b)
	return b, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, len(r.books))
	copy(out, r.books)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}
