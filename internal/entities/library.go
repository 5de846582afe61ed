package entities

import "time"

// DateLayout is the wire format for all calendar dates in the system.
// Loans and memberships work in whole days; time-of-day is never stored.
const DateLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

// Session identifies an authenticated caller. It is produced by the
// authentication service and passed explicitly into every library
// operation; there is no ambient current-user state.
type Session struct {
	Role     Role
	MemberID string // empty for librarian sessions
	Name     string
}

type Book struct {
	ISBN            string `gorm:"primaryKey;size:20"`
	Title           string `gorm:"index;size:512"`
	Author          string `gorm:"index;size:256"`
	TotalCopies     int
	AvailableCopies int
}

type Member struct {
	MemberID     string `gorm:"primaryKey;size:20"`
	Name         string `gorm:"size:256"`
	PasswordHash string `gorm:"size:100"`
	Email        string `gorm:"uniqueIndex;size:255"`
	JoinDate     time.Time
}

// Loan records a single lending of one copy of a book to a member.
// ReturnDate is nil while the loan is active; once set the loan is
// terminal and never mutated again. Loans are never deleted.
type Loan struct {
	LoanID     string `gorm:"primaryKey;size:20"`
	MemberID   string `gorm:"index;size:20"`
	ISBN       string `gorm:"index;size:20"`
	IssueDate  time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// Active reports whether the loan has not yet been returned.
func (l Loan) Active() bool {
	return l.ReturnDate == nil
}

// OverdueAt reports whether the loan is active and past due on the given
// date. A loan due exactly on asOf is not overdue.
func (l Loan) OverdueAt(asOf time.Time) bool {
	return l.Active() && l.DueDate.Before(DateOnly(asOf))
}

// DaysOverdue returns how many whole days past due the loan is on the
// given date, or 0 if it is not overdue.
func (l Loan) DaysOverdue(asOf time.Time) int {
	if !l.OverdueAt(asOf) {
		return 0
	}
	return int(DateOnly(asOf).Sub(l.DueDate).Hours() / 24)
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

func (Loan) TableName() string {
	return "loans"
}
