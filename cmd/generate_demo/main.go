// Command generate_demo seeds a data directory with a sample catalogue,
// members and loans for trying out the console.
// Usage: go run cmd/generate_demo/main.go [-data path/to/dir]
package main

import (
	"flag"
	"log"
	"time"

	"github.com/mrlokans/librarium/internal/auth"
	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/storage/csvstore"
)

const (
	defaultDemoDataDir = "./demo-data"

	// Every demo member logs in with this password.
	demoPassword = "Password1"
)

func main() {
	dataDir := flag.String("data", defaultDemoDataDir, "directory to write the demo CSV files to")
	flag.Parse()

	log.Printf("Generating demo data in %s...", *dataDir)

	store, err := csvstore.New(*dataDir)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	hash, err := auth.HashPassword(demoPassword, 10)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	today := entities.DateOnly(time.Now())
	date := func(daysAgo int) time.Time { return today.AddDate(0, 0, -daysAgo) }

	books := []entities.Book{
		{ISBN: "9780140449136", Title: "The Odyssey", Author: "Homer", TotalCopies: 3, AvailableCopies: 2},
		{ISBN: "9780141439518", Title: "Pride and Prejudice", Author: "Jane Austen", TotalCopies: 2, AvailableCopies: 2},
		{ISBN: "9780486284736", Title: "Frankenstein", Author: "Mary Shelley", TotalCopies: 1, AvailableCopies: 0},
		{ISBN: "9780141441146", Title: "Jane Eyre", Author: "Charlotte Bronte", TotalCopies: 2, AvailableCopies: 2},
	}

	members := []entities.Member{
		{MemberID: "1001", Name: "Alice Carroll", PasswordHash: hash, Email: "alice@example.com", JoinDate: date(120)},
		{MemberID: "1002", Name: "Bob Verne", PasswordHash: hash, Email: "bob@example.com", JoinDate: date(45)},
	}

	returned := date(10)
	loans := []entities.Loan{
		// active, on time
		{LoanID: "1", MemberID: "1001", ISBN: "9780140449136", IssueDate: date(5), DueDate: date(5).AddDate(0, 0, 14)},
		// active, overdue
		{LoanID: "2", MemberID: "1002", ISBN: "9780486284736", IssueDate: date(30), DueDate: date(30).AddDate(0, 0, 14)},
		// returned
		{LoanID: "3", MemberID: "1001", ISBN: "9780141439518", IssueDate: date(25), DueDate: date(25).AddDate(0, 0, 14), ReturnDate: &returned},
	}

	if err := store.SaveBooks(books); err != nil {
		log.Fatalf("Failed to save books: %v", err)
	}
	if err := store.SaveMembers(members); err != nil {
		log.Fatalf("Failed to save members: %v", err)
	}
	if err := store.SaveLoans(loans); err != nil {
		log.Fatalf("Failed to save loans: %v", err)
	}

	log.Printf("Saved %d books, %d members, %d loans", len(books), len(members), len(loans))
	log.Printf("Members log in with password %q", demoPassword)
	log.Println("Demo data generated successfully!")
}
