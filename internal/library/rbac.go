package library

import (
	"fmt"

	"github.com/mrlokans/librarium/internal/entities"
)

// Operation names a service entry point for authorization purposes.
type Operation string

const (
	OpAddBook        Operation = "add_book"
	OpRemoveBook     Operation = "remove_book"
	OpSearchBooks    Operation = "search_books"
	OpGetBook        Operation = "get_book"
	OpListBooks      Operation = "list_books"
	OpListMembers    Operation = "list_members"
	OpGetMember      Operation = "get_member"
	OpRegisterMember Operation = "register_member"
	OpIssueBook      Operation = "issue_book"
	OpReturnBook     Operation = "return_book"
	OpListOverdue    Operation = "list_overdue"
	OpMemberLoans    Operation = "member_loans"
)

// permissions is the explicit role-by-operation grant table, checked
// uniformly at the service boundary. Members additionally may only
// query their own loans; that ownership check lives in the loan query
// methods.
var permissions = map[entities.Role]map[Operation]bool{
	entities.RoleLibrarian: {
		OpAddBook:        true,
		OpRemoveBook:     true,
		OpSearchBooks:    true,
		OpGetBook:        true,
		OpListBooks:      true,
		OpListMembers:    true,
		OpGetMember:      true,
		OpRegisterMember: true,
		OpIssueBook:      true,
		OpReturnBook:     true,
		OpListOverdue:    true,
		OpMemberLoans:    true,
	},
	entities.RoleMember: {
		OpSearchBooks: true,
		OpGetBook:     true,
		OpMemberLoans: true,
	},
}

func authorize(sess entities.Session, op Operation) error {
	if permissions[sess.Role][op] {
		return nil
	}
	return fmt.Errorf("%w: role %q may not perform %s", ErrPermission, sess.Role, op)
}
