package csvstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/storage/csvstore"
	"github.com/mrlokans/librarium/internal/storage/storetest"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := csvstore.New(t.TempDir())
	require.NoError(t, err)

	storetest.RunRoundTrip(t, store)
}

func TestNew_SeedsHeaderRows(t *testing.T) {
	dir := t.TempDir()

	_, err := csvstore.New(dir)
	require.NoError(t, err)

	for file, header := range map[string]string{
		"books.csv":   "ISBN,Title,Author,CopiesTotal,CopiesAvailable",
		"members.csv": "MemberID,Name,PasswordHash,Email,JoinDate",
		"loans.csv":   "LoanID,MemberID,ISBN,IssueDate,DueDate,ReturnDate",
	} {
		content, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, file)
		assert.Equal(t, header, strings.TrimSpace(string(content)), file)
	}
}

func TestNew_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := csvstore.New(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveBooks([]entities.Book{
		{ISBN: "111", Title: "Kept", Author: "Author", TotalCopies: 1, AvailableCopies: 1},
	}))

	// Reopening the directory must not truncate the data.
	store, err = csvstore.New(dir)
	require.NoError(t, err)

	books, err := store.LoadBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Kept", books[0].Title)
}

func TestStore_ActiveLoanHasEmptyReturnField(t *testing.T) {
	dir := t.TempDir()

	store, err := csvstore.New(dir)
	require.NoError(t, err)

	issued := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveLoans([]entities.Loan{
		{LoanID: "1", MemberID: "1001", ISBN: "111", IssueDate: issued, DueDate: issued.AddDate(0, 0, 14)},
	}))

	content, err := os.ReadFile(filepath.Join(dir, "loans.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1,1001,111,2026-01-10,2026-01-24,", lines[1])
}

func TestStore_LoadRejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()

	store, err := csvstore.New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "books.csv")
	content := "ISBN,Title,Author,CopiesTotal,CopiesAvailable\n111,Title,Author,not-a-number,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err = store.LoadBooks()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CopiesTotal")
}

func TestStore_NoStaleTempFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := csvstore.New(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveBooks([]entities.Book{
		{ISBN: "111", Title: "Title", Author: "Author", TotalCopies: 1, AvailableCopies: 1},
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files must be renamed away")
	}
}
