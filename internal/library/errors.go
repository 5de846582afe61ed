package library

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrPermission      = errors.New("permission denied")
)

// Specific errors, pre-wrapped so errors.Is matches both the specific
// value and its kind.
var (
	ErrBookExists       = fmt.Errorf("%w: a book with this ISBN already exists", ErrValidation)
	ErrBookNotFound     = fmt.Errorf("%w: book", ErrNotFound)
	ErrMemberNotFound   = fmt.Errorf("%w: member", ErrNotFound)
	ErrLoanNotFound     = fmt.Errorf("%w: loan", ErrNotFound)
	ErrEmailRegistered  = fmt.Errorf("%w: email is already registered", ErrValidation)
	ErrDuplicateLoan    = fmt.Errorf("%w: member already holds an active loan for this book", ErrConflict)
	ErrLoansOutstanding = fmt.Errorf("%w: book has active loans", ErrConflict)
)
