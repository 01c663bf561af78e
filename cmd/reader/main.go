package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookmarket/internal/catalog"
	"bookmarket/internal/session"
)

const usage = `Usage: reader <command> [flags]

Commands:
  browse    List books, optionally filtered by -category and -search
  add       Add a book to the cart by id
  cart      Show the cart contents
  checkout  Purchase the cart and print download links
  clear     Empty the cart
  refresh   Re-fetch the catalog snapshot from the marketplace
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	stateDir := os.Getenv("STATE_DIR")
	if stateDir == "" {
		stateDir = ".bookmarket"
	}

	sess := session.NewSession(catalog.NewClient(baseURL), session.NewFileKV(stateDir))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		log.Fatalf("cannot start session: %v", err)
	}

	switch os.Args[1] {
	case "browse":
		fs := flag.NewFlagSet("browse", flag.ExitOnError)
		category := fs.String("category", session.CategoryAll, "Category filter")
		search := fs.String("search", "", "Search by title, author or category")
		fs.Parse(os.Args[2:])
		runBrowse(sess, *category, *search)
	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		fs.Parse(os.Args[2:])
		if fs.NArg() != 1 {
			log.Fatal("usage: reader add <book-id>")
		}
		runAdd(sess, fs.Arg(0))
	case "cart":
		runCart(sess)
	case "checkout":
		runCheckout(sess)
	case "clear":
		if err := sess.ClearCart(); err != nil {
			log.Fatalf("cannot clear cart: %v", err)
		}
		fmt.Println("Cart cleared")
	case "refresh":
		if err := sess.RefreshCatalog(ctx); err != nil {
			log.Fatalf("cannot refresh catalog: %v", err)
		}
		fmt.Printf("Catalog refreshed: %d books\n", len(sess.Books()))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func runBrowse(sess *session.Session, category, search string) {
	books := sess.ApplyFilter(category, search)
	if len(books) == 0 {
		fmt.Println("No books found")
		return
	}
	for _, b := range books {
		fmt.Printf("%s  %-30s  %-20s  %-11s  $%6.2f  %s\n",
			b.ID, truncate(b.Title, 30), truncate(b.Author, 20), b.Category, b.Price, session.StarBar(b.Rating))
	}
	fmt.Printf("%d books\n", len(books))
}

func runAdd(sess *session.Session, id string) {
	for _, b := range sess.Books() {
		if b.ID == id {
			if err := sess.AddToCart(b); err != nil {
				log.Fatalf("cannot add to cart: %v", err)
			}
			fmt.Printf("Added %q to cart (%d items)\n", b.Title, sess.CartCount())
			return
		}
	}
	log.Fatalf("no book with id %s in the catalog (try 'reader refresh')", id)
}

func runCart(sess *session.Session) {
	items := sess.Cart()
	if len(items) == 0 {
		fmt.Println("Your cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("%dx %-30s  $%6.2f\n", item.Quantity, truncate(item.Title, 30), item.Price*float64(item.Quantity))
	}
	fmt.Printf("Total: $%.2f (%d items)\n", sess.CartTotal(), sess.CartCount())
}

func runCheckout(sess *session.Session) {
	items, err := sess.Checkout()
	if err != nil {
		log.Fatalf("checkout failed: %v", err)
	}
	fmt.Printf("Purchased %d books. Downloads:\n", len(items))
	for _, item := range items {
		fmt.Printf("  %s -> %s\n", session.DownloadName(item.Title, item.BookFile), session.AttachmentURL(item.BookFile))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
