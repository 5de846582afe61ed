// Package storage defines the persistence gateway the library service
// talks to. Implementations rewrite whole collections on save; the
// service owns the in-memory state and invokes the gateway at load
// (startup) and save (after each mutating operation) boundaries.
package storage

import "github.com/mrlokans/librarium/internal/entities"

// Store persists the three entity collections. A save followed by a
// load must reproduce every field losslessly, including the
// set-vs-unset distinction of Loan.ReturnDate.
type Store interface {
	LoadBooks() ([]entities.Book, error)
	SaveBooks([]entities.Book) error

	LoadMembers() ([]entities.Member, error)
	SaveMembers([]entities.Member) error

	LoadLoans() ([]entities.Loan, error)
	SaveLoans([]entities.Loan) error
}
