// Package reports renders circulation reports as markdown files.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/library"
)

// GenerateOverdueMarkdown renders the overdue loans as a markdown
// document with a front-matter block and one table row per loan.
func GenerateOverdueMarkdown(rows []library.OverdueRow, asOf time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "report: overdue_loans\n")
	fmt.Fprintf(&builder, "as_of: %s\n", entities.FormatDate(asOf))
	fmt.Fprintf(&builder, "generated_at: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&builder, "total: %d\n", len(rows))
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "## Overdue loans as of %s\n\n", entities.FormatDate(asOf))

	if len(rows) == 0 {
		fmt.Fprintf(&builder, "No overdue loans.\n")
		return builder.String()
	}

	fmt.Fprintf(&builder, "| Loan | Member | Book | Due | Days overdue |\n")
	fmt.Fprintf(&builder, "|------|--------|------|-----|--------------|\n")
	for _, row := range rows {
		fmt.Fprintf(&builder, "| %s | %s (%s) | %s | %s | %d |\n",
			row.Loan.LoanID,
			row.Member.Name,
			row.Member.MemberID,
			row.Book.Title,
			entities.FormatDate(row.Loan.DueDate),
			row.Loan.DaysOverdue(asOf),
		)
	}

	return builder.String()
}

// WriteOverdueReport writes the markdown report to the given path,
// creating parent directories as needed.
func WriteOverdueReport(path string, rows []library.OverdueRow, asOf time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	content := GenerateOverdueMarkdown(rows, asOf)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
