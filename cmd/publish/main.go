package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"bookmarket/internal/catalog"
	"bookmarket/internal/publish"
	"bookmarket/internal/upload"
)

func main() {
	var (
		apiURL      = flag.String("api", "", "Marketplace API base URL (defaults to $API_URL or http://localhost:8080)")
		title       = flag.String("title", "", "Book title")
		author      = flag.String("author", "", "Author name")
		description = flag.String("description", "", "Book description")
		category    = flag.String("category", "", "Category (fiction, non-fiction, mystery, romance, sci-fi, self-help)")
		price       = flag.String("price", "", "List price in USD, e.g. 9.99")
		coverPath   = flag.String("cover", "", "Path to the cover image")
		bookPath    = flag.String("book", "", "Path to the book file (pdf, epub or mobi)")
		quoteOnly   = flag.Bool("quote", false, "Print the royalty quote for -price and exit")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")

	if *quoteOnly {
		if _, err := strconv.ParseFloat(*price, 64); err != nil {
			log.Fatalf("invalid price %q", *price)
		}
		printQuote(*price)
		return
	}

	baseURL := *apiURL
	if baseURL == "" {
		baseURL = os.Getenv("API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	workflow := publish.NewWorkflow(
		upload.NewValidator(upload.DefaultLimits()),
		upload.NewClient(baseURL, 5),
		catalog.NewClient(baseURL),
	)

	if err := workflow.SetMetadata(publish.Metadata{
		Title:       *title,
		Author:      *author,
		Description: *description,
		Category:    *category,
		Price:       *price,
	}); err != nil {
		log.Fatalf("metadata rejected: %v", err)
	}

	if err := workflow.AttachFiles(*coverPath, *bookPath); err != nil {
		log.Fatalf("file rejected: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("Publishing...")
	published, err := workflow.Publish(ctx)
	if err != nil {
		if failure := workflow.Failure(); failure != nil {
			log.Fatalf("publish failed at %s: %v", failure.Stage, failure.Err)
		}
		log.Fatalf("publish failed: %v", err)
	}

	fmt.Printf("Published %q (id %s)\n", published.Title, published.ID)
	fmt.Printf("  cover: %s\n", published.CoverImage.URL)
	fmt.Printf("  book:  %s\n", published.BookFile.URL)
	printQuote(*price)
}

func printQuote(price string) {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return
	}
	q := publish.QuoteRoyalty(p)
	fmt.Printf("Royalty quote for $%.2f:\n", q.Price)
	fmt.Printf("  author share (70%%):   $%.2f\n", q.AuthorShare)
	fmt.Printf("  platform share (30%%): $%.2f\n", q.PlatformShare)
	fmt.Printf("  processing fee:        $%.2f\n", q.ProcessingFee)
	fmt.Printf("  net per sale:          $%.2f\n", q.NetEarnings)
}
