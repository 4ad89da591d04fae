// cmd/librarium/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"librarium/internal/book"
	"librarium/internal/catalog"
)

func main() {
	_ = godotenv.Load(".env.local")

	name := getEnv("LIBRARY_NAME", "Central Library")
	address := getEnv("LIBRARY_ADDRESS", "Main Street 1")

	ctx := context.Background()
	lib := catalog.NewService(name, address)

	seed(ctx, lib)

	fmt.Println(lib)
	lib.PrintInfo(os.Stdout)

	fmt.Println(">>> Borrow/return:")
	for _, title := range []string{"Dune", "1984"} {
		if err := lib.Borrow(ctx, title); err != nil {
			log.Printf("borrow %s: %v", title, err)
			continue
		}
		rec, _ := lib.FindByTitle(title)
		fmt.Printf("Borrowed: %s, copies left: %d\n", rec.Title(), rec.Copies())
	}
	if err := lib.Return(ctx, "Dune"); err != nil {
		log.Printf("return Dune: %v", err)
	}

	fmt.Println(">>> Books by Frank Herbert:")
	for rec := range lib.Search(ctx, catalog.Query{Author: "Frank Herbert"}) {
		fmt.Printf("  %s\n", rec.DisplayName())
	}

	fmt.Println(">>> Containment:")
	fmt.Printf("'Dune' in library: %v\n", lib.Contains("Dune"))
	fmt.Printf("'Unknown Book' in library: %v\n", lib.Contains("Unknown Book"))

	fmt.Println(">>> Borrow history:")
	history, err := lib.BorrowHistory(ctx)
	if err != nil {
		log.Fatalf("borrow history: %v", err)
	}
	for _, entry := range history {
		fmt.Printf("  - %s by %s (%d)\n", entry.Title, entry.Author, entry.Year)
	}

	dump, err := lib.ExportJSON(ctx)
	if err != nil {
		log.Fatalf("export catalog: %v", err)
	}
	fmt.Println(string(dump))
}

func seed(ctx context.Context, lib catalog.Service) {
	if _, err := lib.AddBook(ctx, "Dune", "Frank Herbert", 1965, 3); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	orwell, err := book.New("1984", "George Orwell", 1949, 2)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	cleanCode, err := book.NewEBook("Clean Code", "Robert Martin", 2008, 10, 5.2)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	gatsby, err := book.NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, 480)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	for _, rec := range []book.Record{orwell, cleanCode, gatsby} {
		if err := lib.Add(ctx, rec); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
