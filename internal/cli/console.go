// Package cli is the presentation layer: an interactive menu console
// plus non-interactive subcommands. It renders results and maps service
// errors to user messages; all business rules live in the library
// service.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/librarium/internal/audit"
	"github.com/mrlokans/librarium/internal/auth"
	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/library"
)

type Console struct {
	svc   *library.Service
	auth  *auth.Service
	audit *audit.Service

	in  *bufio.Scanner
	out io.Writer
	now func() time.Time

	// password reader, swappable in tests
	readPassword func(c *Console, prompt string) (string, bool)
}

func NewConsole(svc *library.Service, authSvc *auth.Service, auditSvc *audit.Service) *Console {
	return &Console{
		svc:          svc,
		auth:         authSvc,
		audit:        auditSvc,
		in:           bufio.NewScanner(os.Stdin),
		out:          os.Stdout,
		now:          time.Now,
		readPassword: terminalPassword,
	}
}

// Run drives the login menu until the user exits or input ends.
func (c *Console) Run() {
	fmt.Fprintln(c.out, "Library Management System")

	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1. Librarian login")
		fmt.Fprintln(c.out, "2. Member login")
		fmt.Fprintln(c.out, "3. Exit")

		choice, ok := c.promptLine("> ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.login("Username: ")
		case "2":
			c.login("Member ID or email: ")
		case "3", "exit", "q":
			fmt.Fprintln(c.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(c.out, "Unknown option.")
		}
	}
}

func (c *Console) login(prompt string) {
	identifier, ok := c.promptLine(prompt)
	if !ok {
		return
	}
	password, ok := c.readPassword(c, "Password: ")
	if !ok {
		return
	}

	sess, err := c.auth.Authenticate(identifier, password)
	c.audit.LogLogin(identifier, err)
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintf(c.out, "Logged in as %s\n", sess.Name)
	switch sess.Role {
	case entities.RoleLibrarian:
		c.librarianMenu(*sess)
	case entities.RoleMember:
		c.memberMenu(*sess)
	}
}

func (c *Console) librarianMenu(sess entities.Session) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Librarian menu")
		fmt.Fprintln(c.out, " 1. Add book")
		fmt.Fprintln(c.out, " 2. Remove book")
		fmt.Fprintln(c.out, " 3. Issue book")
		fmt.Fprintln(c.out, " 4. Return book")
		fmt.Fprintln(c.out, " 5. Overdue loans")
		fmt.Fprintln(c.out, " 6. Register member")
		fmt.Fprintln(c.out, " 7. Search books")
		fmt.Fprintln(c.out, " 8. All books")
		fmt.Fprintln(c.out, " 9. All members")
		fmt.Fprintln(c.out, "10. Audit trail")
		fmt.Fprintln(c.out, " 0. Logout")

		choice, ok := c.promptLine("> ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.handleAddBook(sess)
		case "2":
			c.handleRemoveBook(sess)
		case "3":
			c.handleIssueBook(sess)
		case "4":
			c.handleReturnBook(sess)
		case "5":
			c.handleOverdue(sess)
		case "6":
			c.handleRegisterMember(sess)
		case "7":
			c.handleSearchBooks(sess)
		case "8":
			c.handleAllBooks(sess)
		case "9":
			c.handleAllMembers(sess)
		case "10":
			c.handleAuditTrail()
		case "0":
			fmt.Fprintln(c.out, "Logged out.")
			return
		default:
			fmt.Fprintln(c.out, "Unknown option.")
		}
	}
}

func (c *Console) memberMenu(sess entities.Session) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Member menu")
		fmt.Fprintln(c.out, "1. Search books")
		fmt.Fprintln(c.out, "2. My loans")
		fmt.Fprintln(c.out, "3. My loan history")
		fmt.Fprintln(c.out, "0. Logout")

		choice, ok := c.promptLine("> ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			c.handleSearchBooks(sess)
		case "2":
			c.handleMemberLoans(sess, true)
		case "3":
			c.handleMemberLoans(sess, false)
		case "0":
			fmt.Fprintln(c.out, "Logged out.")
			return
		default:
			fmt.Fprintln(c.out, "Unknown option.")
		}
	}
}

func (c *Console) handleAddBook(sess entities.Session) {
	isbn, ok := c.promptLine("ISBN: ")
	if !ok {
		return
	}
	title, ok := c.promptLine("Title: ")
	if !ok {
		return
	}
	author, ok := c.promptLine("Author: ")
	if !ok {
		return
	}
	copies, ok := c.promptInt("Copies: ")
	if !ok {
		return
	}

	book, err := c.svc.AddBook(sess, isbn, title, author, copies)
	if err != nil {
		c.printError(err)
		return
	}
	c.audit.LogBookAdded(sess.Name, book.ISBN, book.Title)
	fmt.Fprintf(c.out, "Book %q added.\n", book.Title)
}

func (c *Console) handleRemoveBook(sess entities.Session) {
	isbn, ok := c.promptLine("ISBN: ")
	if !ok {
		return
	}
	if err := c.svc.RemoveBook(sess, isbn); err != nil {
		c.printError(err)
		return
	}
	c.audit.LogBookRemoved(sess.Name, isbn)
	fmt.Fprintln(c.out, "Book removed.")
}

func (c *Console) handleIssueBook(sess entities.Session) {
	memberID, ok := c.promptLine("Member ID: ")
	if !ok {
		return
	}
	isbn, ok := c.promptLine("ISBN: ")
	if !ok {
		return
	}
	asOf, ok := c.promptDate("Issue date (YYYY-MM-DD, empty for today): ")
	if !ok {
		return
	}

	loan, err := c.svc.IssueBook(sess, memberID, isbn, asOf)
	if err != nil {
		c.printError(err)
		return
	}
	c.audit.LogIssue(sess.Name, loan.LoanID, memberID, isbn)
	fmt.Fprintf(c.out, "Issued loan %s, due %s.\n", loan.LoanID, entities.FormatDate(loan.DueDate))
}

func (c *Console) handleReturnBook(sess entities.Session) {
	loanID, ok := c.promptLine("Loan ID: ")
	if !ok {
		return
	}
	asOf, ok := c.promptDate("Return date (YYYY-MM-DD, empty for today): ")
	if !ok {
		return
	}

	loan, err := c.svc.ReturnBook(sess, loanID, asOf)
	if err != nil {
		c.printError(err)
		return
	}
	c.audit.LogReturn(sess.Name, loanID)

	if days := overdueDays(loan); days > 0 {
		fmt.Fprintf(c.out, "Book returned. The book was %d days overdue.\n", days)
	} else {
		fmt.Fprintln(c.out, "Book returned on time.")
	}
}

func (c *Console) handleOverdue(sess entities.Session) {
	asOf := entities.DateOnly(c.now())
	rows, err := c.svc.OverdueRows(sess, asOf)
	if err != nil {
		c.printError(err)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No overdue loans.")
		return
	}
	renderOverdueTable(c.out, rows, asOf)
}

func (c *Console) handleRegisterMember(sess entities.Session) {
	name, ok := c.promptLine("Name: ")
	if !ok {
		return
	}
	email, ok := c.promptLine("Email: ")
	if !ok {
		return
	}
	password, ok := c.readPassword(c, "Password: ")
	if !ok {
		return
	}
	confirm, ok := c.readPassword(c, "Confirm password: ")
	if !ok {
		return
	}
	if password != confirm {
		fmt.Fprintln(c.out, "Error: passwords do not match.")
		return
	}

	member, err := c.svc.RegisterMember(sess, name, email, password)
	if err != nil {
		c.printError(err)
		return
	}
	c.audit.LogRegistration(sess.Name, member.MemberID, member.Email)
	fmt.Fprintf(c.out, "Member registered. The new member ID is %s.\n", member.MemberID)
}

func (c *Console) handleSearchBooks(sess entities.Session) {
	query, ok := c.promptLine("Search (title/author): ")
	if !ok {
		return
	}
	books, err := c.svc.SearchBooks(sess, query, library.FieldAny)
	if err != nil {
		c.printError(err)
		return
	}
	if len(books) == 0 {
		fmt.Fprintln(c.out, "No books found.")
		return
	}
	renderBooksTable(c.out, books)
}

func (c *Console) handleAllBooks(sess entities.Session) {
	books, err := c.svc.AllBooks(sess)
	if err != nil {
		c.printError(err)
		return
	}
	renderBooksTable(c.out, books)
}

func (c *Console) handleAllMembers(sess entities.Session) {
	members, err := c.svc.AllMembers(sess)
	if err != nil {
		c.printError(err)
		return
	}
	renderMembersTable(c.out, members)
}

func (c *Console) handleAuditTrail() {
	events, err := c.audit.Recent(50)
	if err != nil {
		c.printError(err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No audit events recorded.")
		return
	}
	renderAuditTable(c.out, events)
}

func (c *Console) handleMemberLoans(sess entities.Session, activeOnly bool) {
	var (
		loans []entities.Loan
		err   error
	)
	if activeOnly {
		loans, err = c.svc.MemberActiveLoans(sess, sess.MemberID)
	} else {
		loans, err = c.svc.MemberLoanHistory(sess, sess.MemberID)
	}
	if err != nil {
		c.printError(err)
		return
	}
	if len(loans) == 0 {
		fmt.Fprintln(c.out, "No loans.")
		return
	}
	renderLoansTable(c.out, loans, func(isbn string) string {
		if book, err := c.svc.GetBook(sess, isbn); err == nil {
			return book.Title
		}
		return "?"
	})
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.out, "Error: %s\n", errorMessage(err))
}

// errorMessage maps service errors to short user-facing messages.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, library.ErrBookExists):
		return "a book with this ISBN already exists"
	case errors.Is(err, library.ErrEmailRegistered):
		return "this email is already registered"
	case errors.Is(err, library.ErrDuplicateLoan):
		return "this member already has this book on loan"
	case errors.Is(err, library.ErrLoansOutstanding):
		return "this book has copies out on loan"
	case errors.Is(err, library.ErrAlreadyReturned):
		return "this loan was already returned"
	case errors.Is(err, library.ErrUnavailable):
		return "no copies of this book are available"
	case errors.Is(err, library.ErrNotFound):
		return err.Error()
	case errors.Is(err, library.ErrPermission):
		return "you are not allowed to do that"
	case errors.Is(err, auth.ErrMemberNotFound):
		return "member not found"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid credentials"
	default:
		return err.Error()
	}
}

func overdueDays(loan *entities.Loan) int {
	if loan.ReturnDate == nil || !loan.DueDate.Before(*loan.ReturnDate) {
		return 0
	}
	return int(loan.ReturnDate.Sub(loan.DueDate).Hours() / 24)
}
