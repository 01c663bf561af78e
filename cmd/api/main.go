package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"bookmarket/internal/book"
	apphttp "bookmarket/internal/http"
	"bookmarket/internal/httpx"
	"bookmarket/internal/storage"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	databaseDSN := os.Getenv("DB_DSN")
	uploadDir := getEnv("UPLOAD_DIR", "_uploads")
	corsOrigins := strings.Split(getEnv("CORS_ORIGINS", "*"), ",")
	maxRequestBytes := getEnvInt64("MAX_REQUEST_BYTES", 52<<20)

	var repo book.Repository
	var ready func(r *http.Request) error

	if databaseDSN != "" {
		dbPool := mustOpenDB(databaseDSN)
		defer dbPool.Close()
		repo = book.NewPostgresRepo(dbPool, 5*time.Second)
		ready = func(r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			return dbPool.Ping(ctx)
		}
	} else {
		log.Println("DB_DSN not set, using in-memory catalog")
		repo = book.NewMemoryRepo()
	}

	blobs := storage.NewLocalStore(uploadDir, "/files")

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Books:   book.NewService(repo),
		Blobs:   blobs,
		BlobDir: blobs.Dir(),
		Ready:   ready,
	})

	rateLimit := httpx.NewRateLimitMiddleware(50, 100)

	var handler http.Handler = router
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(maxRequestBytes)(handler)
	handler = httpx.CORSMiddleware(corsOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using default %d", key, os.Getenv(key), def)
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
