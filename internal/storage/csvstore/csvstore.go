// Package csvstore persists the entity collections as delimited text
// files with header rows, one file per collection. This is the primary
// backend: the files stay human-readable and editable.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mrlokans/librarium/internal/entities"
)

const (
	booksFile   = "books.csv"
	membersFile = "members.csv"
	loansFile   = "loans.csv"
)

var (
	bookHeader   = []string{"ISBN", "Title", "Author", "CopiesTotal", "CopiesAvailable"}
	memberHeader = []string{"MemberID", "Name", "PasswordHash", "Email", "JoinDate"}
	loanHeader   = []string{"LoanID", "MemberID", "ISBN", "IssueDate", "DueDate", "ReturnDate"}
)

// Store reads and writes CSV files under a single data directory.
type Store struct {
	dataDir string
}

// New creates the data directory if needed and seeds empty files with
// header rows so a fresh directory is immediately loadable.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{dataDir: dataDir}

	for file, header := range map[string][]string{
		booksFile:   bookHeader,
		membersFile: memberHeader,
		loansFile:   loanHeader,
	} {
		path := filepath.Join(dataDir, file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := s.writeRows(file, header, nil); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (s *Store) LoadBooks() ([]entities.Book, error) {
	rows, err := s.readRows(booksFile, len(bookHeader))
	if err != nil {
		return nil, err
	}

	books := make([]entities.Book, 0, len(rows))
	for i, row := range rows {
		total, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad CopiesTotal %q: %w", booksFile, i+2, row[3], err)
		}
		available, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad CopiesAvailable %q: %w", booksFile, i+2, row[4], err)
		}
		books = append(books, entities.Book{
			ISBN:            row[0],
			Title:           row[1],
			Author:          row[2],
			TotalCopies:     total,
			AvailableCopies: available,
		})
	}
	return books, nil
}

func (s *Store) SaveBooks(books []entities.Book) error {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.ISBN,
			b.Title,
			b.Author,
			strconv.Itoa(b.TotalCopies),
			strconv.Itoa(b.AvailableCopies),
		})
	}
	return s.writeRows(booksFile, bookHeader, rows)
}

func (s *Store) LoadMembers() ([]entities.Member, error) {
	rows, err := s.readRows(membersFile, len(memberHeader))
	if err != nil {
		return nil, err
	}

	members := make([]entities.Member, 0, len(rows))
	for i, row := range rows {
		joined, err := entities.ParseDate(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad JoinDate %q: %w", membersFile, i+2, row[4], err)
		}
		members = append(members, entities.Member{
			MemberID:     row[0],
			Name:         row[1],
			PasswordHash: row[2],
			Email:        row[3],
			JoinDate:     joined,
		})
	}
	return members, nil
}

func (s *Store) SaveMembers(members []entities.Member) error {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.MemberID,
			m.Name,
			m.PasswordHash,
			m.Email,
			entities.FormatDate(m.JoinDate),
		})
	}
	return s.writeRows(membersFile, memberHeader, rows)
}

func (s *Store) LoadLoans() ([]entities.Loan, error) {
	rows, err := s.readRows(loansFile, len(loanHeader))
	if err != nil {
		return nil, err
	}

	loans := make([]entities.Loan, 0, len(rows))
	for i, row := range rows {
		issued, err := entities.ParseDate(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad IssueDate %q: %w", loansFile, i+2, row[3], err)
		}
		due, err := entities.ParseDate(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad DueDate %q: %w", loansFile, i+2, row[4], err)
		}

		// An empty ReturnDate field means the loan is still active.
		var returned *time.Time
		if row[5] != "" {
			r, err := entities.ParseDate(row[5])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad ReturnDate %q: %w", loansFile, i+2, row[5], err)
			}
			returned = &r
		}

		loans = append(loans, entities.Loan{
			LoanID:     row[0],
			MemberID:   row[1],
			ISBN:       row[2],
			IssueDate:  issued,
			DueDate:    due,
			ReturnDate: returned,
		})
	}
	return loans, nil
}

func (s *Store) SaveLoans(loans []entities.Loan) error {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		returned := ""
		if l.ReturnDate != nil {
			returned = entities.FormatDate(*l.ReturnDate)
		}
		rows = append(rows, []string{
			l.LoanID,
			l.MemberID,
			l.ISBN,
			entities.FormatDate(l.IssueDate),
			entities.FormatDate(l.DueDate),
			returned,
		})
	}
	return s.writeRows(loansFile, loanHeader, rows)
}

func (s *Store) readRows(file string, wantFields int) ([][]string, error) {
	path := filepath.Join(s.dataDir, file)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is missing its header row", file)
	}
	return records[1:], nil
}

// writeRows rewrites a collection file atomically: the new content goes
// to a temp file in the same directory which then replaces the old file.
func (s *Store) writeRows(file string, header []string, rows [][]string) error {
	path := filepath.Join(s.dataDir, file)

	tmp, err := os.CreateTemp(s.dataDir, file+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", file, err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", file, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", file, err)
	}
	return nil
}
