// Package session holds the reader-side client state: a catalog snapshot,
// the active filter, and a shopping cart persisted through an injected
// key-value store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bookmarket/internal/book"
)

// Storage keys for the two persisted sequences.
const (
	booksKey = "bookstore_books"
	cartKey  = "bookstore_cart"
)

// CategoryAll is the wildcard that disables category filtering.
const CategoryAll = "all"

// Categories is the fixed set a book may be filed under.
var Categories = []string{"fiction", "non-fiction", "mystery", "romance", "sci-fi", "self-help"}

// ErrEmptyCart is returned by Checkout when there is nothing to buy.
var ErrEmptyCart = errors.New("your cart is empty")

// LineItem is a cart entry: a book snapshot plus a quantity of at least 1.
type LineItem struct {
	book.Book
	Quantity int `json:"quantity"`
}

// CatalogLister fetches the catalog when no local snapshot exists yet.
type CatalogLister interface {
	ListBooks(ctx context.Context) ([]book.Book, error)
}

// Session is one reader's browsing state. It is seeded once and not
// refreshed afterwards, so the catalog view can go stale until the snapshot
// is cleared. Not safe for concurrent use.
type Session struct {
	catalog CatalogLister
	kv      KV

	books    []book.Book
	filtered []book.Book
	category string
	search   string
	cart     []LineItem
}

func NewSession(catalog CatalogLister, kv KV) *Session {
	return &Session{
		catalog:  catalog,
		kv:       kv,
		category: CategoryAll,
	}
}

// Start loads the persisted cart and seeds the catalog snapshot.
func (s *Session) Start(ctx context.Context) error {
	if err := s.loadCart(); err != nil {
		return err
	}
	return s.LoadCatalog(ctx)
}

// LoadCatalog seeds the session's catalog: from the persisted snapshot when
// one exists, otherwise with a single fetch whose result is persisted for
// the rest of the session.
func (s *Session) LoadCatalog(ctx context.Context) error {
	data, ok, err := s.kv.Get(booksKey)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal(data, &s.books); err != nil {
			return fmt.Errorf("decode catalog snapshot: %w", err)
		}
	} else {
		books, err := s.catalog.ListBooks(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.books = books
		if err := s.saveSnapshot(); err != nil {
			return err
		}
	}
	s.filtered = append([]book.Book(nil), s.books...)
	return nil
}

// RefreshCatalog drops the snapshot and fetches the catalog again.
func (s *Session) RefreshCatalog(ctx context.Context) error {
	if err := s.kv.Delete(booksKey); err != nil {
		return err
	}
	return s.LoadCatalog(ctx)
}

// Books returns the currently visible subset of the catalog.
func (s *Session) Books() []book.Book {
	return s.filtered
}

// ApplyFilter recomputes the visible subset. Category is an exact match with
// "all" as the wildcard; a non-empty search matches case-insensitively
// against title, author, description, or category.
func (s *Session) ApplyFilter(category, search string) []book.Book {
	s.category = category
	s.search = strings.TrimSpace(strings.ToLower(search))

	s.filtered = s.filtered[:0]
	for _, b := range s.books {
		if s.category != CategoryAll && b.Category != s.category {
			continue
		}
		if s.search != "" && !matchesSearch(b, s.search) {
			continue
		}
		s.filtered = append(s.filtered, b)
	}
	return s.filtered
}

func matchesSearch(b book.Book, term string) bool {
	return strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.Author), term) ||
		strings.Contains(strings.ToLower(b.Description), term) ||
		strings.Contains(strings.ToLower(b.Category), term)
}

// AddToCart merges by book id: a repeated add bumps the quantity instead of
// appending a second line. The whole cart is persisted after the mutation.
func (s *Session) AddToCart(b book.Book) error {
	found := false
	for i := range s.cart {
		if s.cart[i].ID == b.ID {
			s.cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.cart = append(s.cart, LineItem{Book: b, Quantity: 1})
	}
	return s.saveCart()
}

// Cart returns the current line items.
func (s *Session) Cart() []LineItem {
	return s.cart
}

// CartCount sums the quantities across all line items.
func (s *Session) CartCount() int {
	total := 0
	for _, item := range s.cart {
		total += item.Quantity
	}
	return total
}

// CartTotal sums price times quantity across all line items.
func (s *Session) CartTotal() float64 {
	total := 0.0
	for _, item := range s.cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Checkout hands over the cart contents and clears the cart. An empty cart
// is an error so the caller can tell the reader to add books first.
func (s *Session) Checkout() ([]LineItem, error) {
	if len(s.cart) == 0 {
		return nil, ErrEmptyCart
	}
	items := s.cart
	s.cart = nil
	if err := s.saveCart(); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearCart empties the cart without checking out.
func (s *Session) ClearCart() error {
	s.cart = nil
	return s.saveCart()
}

func (s *Session) loadCart() error {
	data, ok, err := s.kv.Get(cartKey)
	if err != nil {
		return err
	}
	if !ok {
		s.cart = nil
		return nil
	}
	if err := json.Unmarshal(data, &s.cart); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}
	return nil
}

func (s *Session) saveCart() error {
	data, err := json.Marshal(s.cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Put(cartKey, data)
}

func (s *Session) saveSnapshot() error {
	data, err := json.Marshal(s.books)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}
	return s.kv.Put(booksKey, data)
}
