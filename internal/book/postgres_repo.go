package book

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	const sql = `
		INSERT INTO books (id, title, author, description, category, price,
		                   book_file_url, book_file_storage_id, book_file_format,
		                   cover_url, cover_storage_id, cover_format,
		                   rating, sales_count, page_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		RETURNING created_at`

	b.ID = uuid.New().String()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.ID, b.Title, b.Author, b.Description, b.Category, b.Price,
		b.BookFile.URL, b.BookFile.StorageID, b.BookFile.Format,
		b.CoverImage.URL, b.CoverImage.StorageID, b.CoverImage.Format,
		b.Rating, b.SalesCount, b.PageCount,
	).Scan(&b.CreatedAt)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const sql = `
		SELECT id, title, author, description, category, price,
		       book_file_url, book_file_storage_id, book_file_format,
		       cover_url, cover_storage_id, cover_format,
		       rating, sales_count, page_count, created_at
		FROM books
		ORDER BY created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Price,
			&b.BookFile.URL, &b.BookFile.StorageID, &b.BookFile.Format,
			&b.CoverImage.URL, &b.CoverImage.StorageID, &b.CoverImage.Format,
			&b.Rating, &b.SalesCount, &b.PageCount, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const sql = `
		SELECT id, title, author, description, category, price,
		       book_file_url, book_file_storage_id, book_file_format,
		       cover_url, cover_storage_id, cover_format,
		       rating, sales_count, page_count, created_at
		FROM books
		WHERE id = $1
		LIMIT 1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Price,
		&b.BookFile.URL, &b.BookFile.StorageID, &b.BookFile.Format,
		&b.CoverImage.URL, &b.CoverImage.StorageID, &b.CoverImage.Format,
		&b.Rating, &b.SalesCount, &b.PageCount, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}
