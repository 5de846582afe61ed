// Package storetest holds the conformance suite every Store backend
// must pass: a save followed by a load reproduces all field values,
// including the set-vs-unset distinction of a loan's return date.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RunRoundTrip exercises the lossless round-trip requirement against a
// fresh, empty store.
func RunRoundTrip(t *testing.T, store storage.Store) {
	t.Helper()

	t.Run("books", func(t *testing.T) {
		books := []entities.Book{
			{ISBN: "111", Title: "The Odyssey", Author: "Homer", TotalCopies: 3, AvailableCopies: 1},
			{ISBN: "222", Title: "A title, with commas \"and quotes\"", Author: "Anonymous", TotalCopies: 1, AvailableCopies: 0},
		}
		require.NoError(t, store.SaveBooks(books))

		loaded, err := store.LoadBooks()
		require.NoError(t, err)
		require.Len(t, loaded, 2)

		byISBN := map[string]entities.Book{}
		for _, b := range loaded {
			byISBN[b.ISBN] = b
		}
		assert.Equal(t, books[0], byISBN["111"])
		assert.Equal(t, books[1], byISBN["222"])
	})

	t.Run("members", func(t *testing.T) {
		members := []entities.Member{
			{
				MemberID:     "1001",
				Name:         "Alice Carroll",
				PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
				Email:        "alice@example.com",
				JoinDate:     date(2026, time.February, 3),
			},
		}
		require.NoError(t, store.SaveMembers(members))

		loaded, err := store.LoadMembers()
		require.NoError(t, err)
		require.Len(t, loaded, 1)

		assert.Equal(t, "1001", loaded[0].MemberID)
		assert.Equal(t, "Alice Carroll", loaded[0].Name)
		assert.Equal(t, members[0].PasswordHash, loaded[0].PasswordHash)
		assert.Equal(t, "alice@example.com", loaded[0].Email)
		assert.Equal(t, "2026-02-03", entities.FormatDate(loaded[0].JoinDate))
	})

	t.Run("loans keep unset return date unset", func(t *testing.T) {
		returned := date(2026, time.March, 1)
		loans := []entities.Loan{
			{
				LoanID:    "1",
				MemberID:  "1001",
				ISBN:      "111",
				IssueDate: date(2026, time.January, 10),
				DueDate:   date(2026, time.January, 24),
			},
			{
				LoanID:     "2",
				MemberID:   "1001",
				ISBN:       "222",
				IssueDate:  date(2026, time.February, 10),
				DueDate:    date(2026, time.February, 24),
				ReturnDate: &returned,
			},
		}
		require.NoError(t, store.SaveLoans(loans))

		loaded, err := store.LoadLoans()
		require.NoError(t, err)
		require.Len(t, loaded, 2)

		byID := map[string]entities.Loan{}
		for _, l := range loaded {
			byID[l.LoanID] = l
		}

		active := byID["1"]
		assert.Nil(t, active.ReturnDate, "unset return date must stay unset")
		assert.Equal(t, "2026-01-10", entities.FormatDate(active.IssueDate))
		assert.Equal(t, "2026-01-24", entities.FormatDate(active.DueDate))

		closed := byID["2"]
		require.NotNil(t, closed.ReturnDate)
		assert.Equal(t, "2026-03-01", entities.FormatDate(*closed.ReturnDate))
	})

	t.Run("save overwrites previous content", func(t *testing.T) {
		require.NoError(t, store.SaveBooks([]entities.Book{
			{ISBN: "333", Title: "Only Book", Author: "Only Author", TotalCopies: 1, AvailableCopies: 1},
		}))

		loaded, err := store.LoadBooks()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "333", loaded[0].ISBN)
	})

	t.Run("empty save leaves empty collection", func(t *testing.T) {
		require.NoError(t, store.SaveLoans(nil))

		loaded, err := store.LoadLoans()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
