// Package library implements the circulation core: catalogue
// management, member registration and the loan lifecycle with its
// copy-count bookkeeping. The service exclusively owns the in-memory
// collections; the persistence gateway is invoked at startup (load) and
// after each mutating operation (save).
package library

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/librarium/internal/auth"
	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/storage"
)

type SearchField string

const (
	FieldTitle  SearchField = "title"
	FieldAuthor SearchField = "author"
	FieldAny    SearchField = "any"
)

// OverdueRow joins a loan with its book and member for display.
type OverdueRow struct {
	Loan   entities.Loan
	Book   entities.Book
	Member entities.Member
}

type Service struct {
	store      storage.Store
	authCfg    config.Auth
	loanPeriod int
	now        func() time.Time

	books   []entities.Book
	members []entities.Member
	loans   []entities.Loan
}

// New loads all collections from the store and verifies them. A loan
// referencing a missing book or member aborts startup; a drifted
// available-copies counter is logged and corrected to the value derived
// from the active loans.
func New(store storage.Store, cfg *config.Config) (*Service, error) {
	books, err := store.LoadBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	members, err := store.LoadMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	loans, err := store.LoadLoans()
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}

	loanPeriod := cfg.Library.LoanPeriodDays
	if loanPeriod <= 0 {
		loanPeriod = config.DefaultLoanPeriodDays
	}

	s := &Service{
		store:      store,
		authCfg:    cfg.Auth,
		loanPeriod: loanPeriod,
		now:        time.Now,
		books:      books,
		members:    members,
		loans:      loans,
	}

	if err := s.verifyReferences(); err != nil {
		return nil, err
	}
	if err := s.reconcileCounters(); err != nil {
		return nil, err
	}

	return s, nil
}

// SetClock overrides the wall clock, used by registration to stamp join
// dates. Tests inject fixed dates through it.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) verifyReferences() error {
	for _, l := range s.loans {
		if s.findMember(l.MemberID) == nil {
			return fmt.Errorf("loan %s references unknown member %s", l.LoanID, l.MemberID)
		}
		if s.findBook(l.ISBN) == nil {
			if l.Active() {
				return fmt.Errorf("active loan %s references unknown book %s", l.LoanID, l.ISBN)
			}
			// A returned loan may outlive its book: removing a book is
			// legal once all its loans are closed, and loans are never
			// deleted.
			log.Printf("WARNING: returned loan %s references removed book %s", l.LoanID, l.ISBN)
		}
	}
	return nil
}

// reconcileCounters restores the invariant
// AvailableCopies == TotalCopies - |active loans| for every book. Drift
// can occur after a crash between the loan save and the book save.
func (s *Service) reconcileCounters() error {
	active := make(map[string]int)
	for _, l := range s.loans {
		if l.Active() {
			active[l.ISBN]++
		}
	}

	drifted := false
	for i := range s.books {
		b := &s.books[i]
		derived := b.TotalCopies - active[b.ISBN]
		if derived < 0 {
			return fmt.Errorf("book %s has %d active loans but only %d copies", b.ISBN, active[b.ISBN], b.TotalCopies)
		}
		if b.AvailableCopies != derived {
			log.Printf("WARNING: book %s available_copies=%d, derived=%d; correcting", b.ISBN, b.AvailableCopies, derived)
			b.AvailableCopies = derived
			drifted = true
		}
	}

	if drifted {
		if err := s.store.SaveBooks(s.books); err != nil {
			return fmt.Errorf("failed to save corrected books: %w", err)
		}
	}
	return nil
}

// Catalogue operations

func (s *Service) AddBook(sess entities.Session, isbn, title, author string, totalCopies int) (*entities.Book, error) {
	if err := authorize(sess, OpAddBook); err != nil {
		return nil, err
	}
	isbn = strings.TrimSpace(isbn)
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if isbn == "" {
		return nil, fmt.Errorf("%w: isbn is required", ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	if totalCopies < 0 {
		return nil, fmt.Errorf("%w: total copies must not be negative", ErrValidation)
	}
	if s.findBook(isbn) != nil {
		return nil, ErrBookExists
	}

	book := entities.Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}
	s.books = append(s.books, book)

	if err := s.store.SaveBooks(s.books); err != nil {
		return nil, fmt.Errorf("failed to save books: %w", err)
	}
	return &book, nil
}

func (s *Service) RemoveBook(sess entities.Session, isbn string) error {
	if err := authorize(sess, OpRemoveBook); err != nil {
		return err
	}
	if s.findBook(isbn) == nil {
		return ErrBookNotFound
	}
	for _, l := range s.loans {
		if l.ISBN == isbn && l.Active() {
			return ErrLoansOutstanding
		}
	}

	kept := s.books[:0]
	for _, b := range s.books {
		if b.ISBN != isbn {
			kept = append(kept, b)
		}
	}
	s.books = kept

	if err := s.store.SaveBooks(s.books); err != nil {
		return fmt.Errorf("failed to save books: %w", err)
	}
	return nil
}

// SearchBooks matches the query case-insensitively as a substring of
// the selected field. An empty query matches everything. Results come
// back ordered by lowercased title, then ISBN.
func (s *Service) SearchBooks(sess entities.Session, query string, field SearchField) ([]entities.Book, error) {
	if err := authorize(sess, OpSearchBooks); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	var matched []entities.Book
	for _, b := range s.books {
		title := strings.ToLower(b.Title)
		author := strings.ToLower(b.Author)

		var match bool
		switch field {
		case FieldTitle:
			match = strings.Contains(title, needle)
		case FieldAuthor:
			match = strings.Contains(author, needle)
		case FieldAny, "":
			match = strings.Contains(title, needle) || strings.Contains(author, needle)
		default:
			return nil, fmt.Errorf("%w: unknown search field %q", ErrValidation, field)
		}
		if match {
			matched = append(matched, b)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		ti, tj := strings.ToLower(matched[i].Title), strings.ToLower(matched[j].Title)
		if ti != tj {
			return ti < tj
		}
		return matched[i].ISBN < matched[j].ISBN
	})
	return matched, nil
}

func (s *Service) GetBook(sess entities.Session, isbn string) (*entities.Book, error) {
	if err := authorize(sess, OpGetBook); err != nil {
		return nil, err
	}
	b := s.findBook(isbn)
	if b == nil {
		return nil, ErrBookNotFound
	}
	book := *b
	return &book, nil
}

func (s *Service) AllBooks(sess entities.Session) ([]entities.Book, error) {
	if err := authorize(sess, OpListBooks); err != nil {
		return nil, err
	}
	books := make([]entities.Book, len(s.books))
	copy(books, s.books)
	return books, nil
}

// Member operations

func (s *Service) AllMembers(sess entities.Session) ([]entities.Member, error) {
	if err := authorize(sess, OpListMembers); err != nil {
		return nil, err
	}
	members := make([]entities.Member, len(s.members))
	copy(members, s.members)
	return members, nil
}

func (s *Service) GetMember(sess entities.Session, memberID string) (*entities.Member, error) {
	if err := authorize(sess, OpGetMember); err != nil {
		return nil, err
	}
	m := s.findMember(memberID)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	member := *m
	return &member, nil
}

// RegisterMember creates a member with the next sequential id. The
// password is policy-checked and bcrypt-hashed; plaintext is never
// stored.
func (s *Service) RegisterMember(sess entities.Session, name, email, password string) (*entities.Member, error) {
	if err := authorize(sess, OpRegisterMember); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			return nil, ErrEmailRegistered
		}
	}
	if err := auth.ValidatePassword(password, s.authCfg.MinPasswordLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := auth.HashPassword(password, s.authCfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := entities.Member{
		MemberID:     s.nextMemberID(),
		Name:         name,
		PasswordHash: hash,
		Email:        email,
		JoinDate:     entities.DateOnly(s.now()),
	}
	s.members = append(s.members, member)

	if err := s.store.SaveMembers(s.members); err != nil {
		return nil, fmt.Errorf("failed to save members: %w", err)
	}
	return &member, nil
}

// Loan lifecycle

// IssueBook lends one copy to a member. All checks precede the
// mutation; the loan append and the counter decrement happen together
// before any save, so no intermediate state is observable.
func (s *Service) IssueBook(sess entities.Session, memberID, isbn string, asOf time.Time) (*entities.Loan, error) {
	if err := authorize(sess, OpIssueBook); err != nil {
		return nil, err
	}
	if s.findMember(memberID) == nil {
		return nil, ErrMemberNotFound
	}
	book := s.findBook(isbn)
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.AvailableCopies == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnavailable, book.Title)
	}
	for _, l := range s.loans {
		if l.MemberID == memberID && l.ISBN == isbn && l.Active() {
			return nil, ErrDuplicateLoan
		}
	}

	issued := entities.DateOnly(asOf)
	loan := entities.Loan{
		LoanID:    s.nextLoanID(),
		MemberID:  memberID,
		ISBN:      isbn,
		IssueDate: issued,
		DueDate:   issued.AddDate(0, 0, s.loanPeriod),
	}

	s.loans = append(s.loans, loan)
	book.AvailableCopies--

	if err := s.store.SaveLoans(s.loans); err != nil {
		return nil, fmt.Errorf("failed to save loans: %w", err)
	}
	if err := s.store.SaveBooks(s.books); err != nil {
		return nil, fmt.Errorf("failed to save books: %w", err)
	}
	return &loan, nil
}

// ReturnBook closes an active loan. Returned loans are terminal; a
// second return fails without touching any counter.
func (s *Service) ReturnBook(sess entities.Session, loanID string, asOf time.Time) (*entities.Loan, error) {
	if err := authorize(sess, OpReturnBook); err != nil {
		return nil, err
	}
	loan := s.findLoan(loanID)
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if !loan.Active() {
		return nil, ErrAlreadyReturned
	}

	returned := entities.DateOnly(asOf)
	if returned.Before(loan.IssueDate) {
		return nil, fmt.Errorf("%w: return date precedes issue date", ErrValidation)
	}

	loan.ReturnDate = &returned
	// Reference integrity is verified at load, so the book must exist.
	s.findBook(loan.ISBN).AvailableCopies++

	if err := s.store.SaveLoans(s.loans); err != nil {
		return nil, fmt.Errorf("failed to save loans: %w", err)
	}
	if err := s.store.SaveBooks(s.books); err != nil {
		return nil, fmt.Errorf("failed to save books: %w", err)
	}

	result := *loan
	return &result, nil
}

// ListOverdue returns active loans whose due date has passed. A loan
// due exactly on asOf is not overdue. Ordered by due date ascending,
// most overdue first, with numeric loan-id tie-break.
func (s *Service) ListOverdue(sess entities.Session, asOf time.Time) ([]entities.Loan, error) {
	if err := authorize(sess, OpListOverdue); err != nil {
		return nil, err
	}

	var overdue []entities.Loan
	for _, l := range s.loans {
		if l.OverdueAt(asOf) {
			overdue = append(overdue, l)
		}
	}

	sort.Slice(overdue, func(i, j int) bool {
		if !overdue[i].DueDate.Equal(overdue[j].DueDate) {
			return overdue[i].DueDate.Before(overdue[j].DueDate)
		}
		return lessLoanID(overdue[i].LoanID, overdue[j].LoanID)
	})
	return overdue, nil
}

// OverdueRows joins overdue loans with book and member details for
// display.
func (s *Service) OverdueRows(sess entities.Session, asOf time.Time) ([]OverdueRow, error) {
	overdue, err := s.ListOverdue(sess, asOf)
	if err != nil {
		return nil, err
	}

	rows := make([]OverdueRow, 0, len(overdue))
	for _, l := range overdue {
		rows = append(rows, OverdueRow{
			Loan:   l,
			Book:   *s.findBook(l.ISBN),
			Member: *s.findMember(l.MemberID),
		})
	}
	return rows, nil
}

// MemberActiveLoans returns the member's open loans, newest first.
// Member-role sessions may only query their own loans.
func (s *Service) MemberActiveLoans(sess entities.Session, memberID string) ([]entities.Loan, error) {
	return s.memberLoans(sess, memberID, true)
}

// MemberLoanHistory returns all of the member's loans, newest first.
func (s *Service) MemberLoanHistory(sess entities.Session, memberID string) ([]entities.Loan, error) {
	return s.memberLoans(sess, memberID, false)
}

func (s *Service) memberLoans(sess entities.Session, memberID string, activeOnly bool) ([]entities.Loan, error) {
	if err := authorize(sess, OpMemberLoans); err != nil {
		return nil, err
	}
	if sess.Role == entities.RoleMember && sess.MemberID != memberID {
		return nil, fmt.Errorf("%w: members may only view their own loans", ErrPermission)
	}
	if s.findMember(memberID) == nil {
		return nil, ErrMemberNotFound
	}

	var loans []entities.Loan
	for _, l := range s.loans {
		if l.MemberID != memberID {
			continue
		}
		if activeOnly && !l.Active() {
			continue
		}
		loans = append(loans, l)
	}

	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].IssueDate.Equal(loans[j].IssueDate) {
			return loans[i].IssueDate.After(loans[j].IssueDate)
		}
		return lessLoanID(loans[j].LoanID, loans[i].LoanID)
	})
	return loans, nil
}

// Lookups for the authentication gateway. These bypass authorization:
// they run before any session exists.

func (s *Service) MemberByID(memberID string) (*entities.Member, bool) {
	m := s.findMember(memberID)
	if m == nil {
		return nil, false
	}
	member := *m
	return &member, true
}

func (s *Service) MemberByEmail(email string) (*entities.Member, bool) {
	for _, m := range s.members {
		if strings.EqualFold(m.Email, email) {
			member := m
			return &member, true
		}
	}
	return nil, false
}

// internal helpers

func (s *Service) findBook(isbn string) *entities.Book {
	for i := range s.books {
		if s.books[i].ISBN == isbn {
			return &s.books[i]
		}
	}
	return nil
}

func (s *Service) findMember(memberID string) *entities.Member {
	for i := range s.members {
		if s.members[i].MemberID == memberID {
			return &s.members[i]
		}
	}
	return nil
}

func (s *Service) findLoan(loanID string) *entities.Loan {
	for i := range s.loans {
		if s.loans[i].LoanID == loanID {
			return &s.loans[i]
		}
	}
	return nil
}

// nextMemberID continues the numeric sequence, starting at 1001.
func (s *Service) nextMemberID() string {
	max := 1000
	for _, m := range s.members {
		if id, err := strconv.Atoi(m.MemberID); err == nil && id > max {
			max = id
		}
	}
	return strconv.Itoa(max + 1)
}

// nextLoanID continues the numeric sequence, starting at 1.
func (s *Service) nextLoanID() string {
	max := 0
	for _, l := range s.loans {
		if id, err := strconv.Atoi(l.LoanID); err == nil && id > max {
			max = id
		}
	}
	return strconv.Itoa(max + 1)
}

// lessLoanID orders loan ids numerically when both parse, falling back
// to string order.
func lessLoanID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
