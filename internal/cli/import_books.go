package cli

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/library"
	"github.com/mrlokans/librarium/internal/storage"
)

// ImportBooksCommand bulk-loads catalogue entries from a CSV file with
// an ISBN,Title,Author,CopiesTotal header.
type ImportBooksCommand struct {
	FilePath string
	DataDir  string
	DryRun   bool
	Verbose  bool
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file to import (required)")
	fs.StringVar(&cmd.DataDir, "data", "", "Data directory (defaults to DATA_DIR or ./data)")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Bulk-import catalogue entries from a CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "The file must carry the header row:\n")
		fmt.Fprintf(os.Stderr, "  ISBN,Title,Author,CopiesTotal\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file new_arrivals.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-books -file new_arrivals.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportBooksCommand) Run() error {
	fmt.Println("Catalogue Import")
	fmt.Println("================")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if len(records) < 2 {
		fmt.Println("No books found in import file")
		return nil
	}
	records = records[1:] // header

	fmt.Printf("Found %d books in %s\n", len(records), cmd.FilePath)

	if cmd.DryRun {
		for i, row := range records {
			fmt.Printf("%d. %q by %s (ISBN %s, %s copies)\n", i+1, row[1], row[2], row[0], row[3])
		}
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	cfg := config.NewConfig()
	if cmd.DataDir != "" {
		cfg.Storage.DataDir = cmd.DataDir
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	svc, err := library.New(store, cfg)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	sess := entities.Session{Role: entities.RoleLibrarian, Name: "import"}

	var imported int
	var importErrors []string

	for i, row := range records {
		copies, err := strconv.Atoi(row[3])
		if err != nil {
			importErrors = append(importErrors, fmt.Sprintf("row %d: bad CopiesTotal %q", i+2, row[3]))
			continue
		}

		book, err := svc.AddBook(sess, row[0], row[1], row[2], copies)
		if err != nil {
			importErrors = append(importErrors, fmt.Sprintf("row %d (%s): %v", i+2, row[0], err))
			if cmd.Verbose {
				fmt.Printf("  [ERROR] %s: %v\n", row[0], err)
			}
			continue
		}

		imported++
		if cmd.Verbose {
			fmt.Printf("  [OK] %q by %s\n", book.Title, book.Author)
		}
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Books imported: %d/%d\n", imported, len(records))

	if len(importErrors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(importErrors))
		for _, msg := range importErrors {
			fmt.Printf("  [ERROR] %s\n", msg)
		}
	}

	return nil
}
