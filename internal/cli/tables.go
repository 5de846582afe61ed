package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/library"
)

func renderBooksTable(w io.Writer, books []entities.Book) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ISBN", "Title", "Author", "Total", "Available"})
	for _, b := range books {
		table.Append([]string{
			b.ISBN,
			b.Title,
			b.Author,
			strconv.Itoa(b.TotalCopies),
			strconv.Itoa(b.AvailableCopies),
		})
	}
	table.Render()
}

func renderMembersTable(w io.Writer, members []entities.Member) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Member ID", "Name", "Email", "Joined"})
	for _, m := range members {
		table.Append([]string{
			m.MemberID,
			m.Name,
			m.Email,
			entities.FormatDate(m.JoinDate),
		})
	}
	table.Render()
}

// renderLoansTable shows each loan with its book title looked up
// through the resolver.
func renderLoansTable(w io.Writer, loans []entities.Loan, title func(isbn string) string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Loan", "Book", "ISBN", "Issued", "Due", "Returned"})
	for _, l := range loans {
		returned := "-"
		if l.ReturnDate != nil {
			returned = entities.FormatDate(*l.ReturnDate)
		}
		table.Append([]string{
			l.LoanID,
			title(l.ISBN),
			l.ISBN,
			entities.FormatDate(l.IssueDate),
			entities.FormatDate(l.DueDate),
			returned,
		})
	}
	table.Render()
}

func renderOverdueTable(w io.Writer, rows []library.OverdueRow, asOf time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Loan", "Member", "Book", "Due", "Days overdue"})
	for _, row := range rows {
		table.Append([]string{
			row.Loan.LoanID,
			row.Member.Name + " (" + row.Member.MemberID + ")",
			row.Book.Title,
			entities.FormatDate(row.Loan.DueDate),
			strconv.Itoa(row.Loan.DaysOverdue(asOf)),
		})
	}
	table.Render()
}

func renderAuditTable(w io.Writer, events []entities.AuditEvent) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Action", "Actor", "Entity", "Status"})
	for _, e := range events {
		entity := e.EntityType
		if e.EntityID != "" {
			entity += " " + e.EntityID
		}
		table.Append([]string{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Action,
			e.Actor,
			entity,
			string(e.Status),
		})
	}
	table.Render()
}
