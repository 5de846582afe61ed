package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/entities"
	"github.com/mrlokans/librarium/internal/library"
	"github.com/mrlokans/librarium/internal/reports"
	"github.com/mrlokans/librarium/internal/storage"
)

// OverdueReportCommand prints the overdue-loan table and optionally
// writes it as a markdown report.
type OverdueReportCommand struct {
	AsOf       string
	DataDir    string
	OutputPath string
}

func NewOverdueReportCommand() *OverdueReportCommand {
	return &OverdueReportCommand{}
}

func (cmd *OverdueReportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("overdue-report", flag.ExitOnError)

	fs.StringVar(&cmd.AsOf, "as-of", "", "Reference date YYYY-MM-DD (defaults to today)")
	fs.StringVar(&cmd.DataDir, "data", "", "Data directory (defaults to DATA_DIR or ./data)")
	fs.StringVar(&cmd.OutputPath, "output", "", "Write a markdown report to this path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s overdue-report [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List loans past their due date.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s overdue-report\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s overdue-report -as-of 2026-01-31 -output reports/overdue.md\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *OverdueReportCommand) Run() error {
	asOf := entities.DateOnly(time.Now())
	if cmd.AsOf != "" {
		parsed, err := entities.ParseDate(cmd.AsOf)
		if err != nil {
			return fmt.Errorf("bad -as-of date %q: %w", cmd.AsOf, err)
		}
		asOf = parsed
	}

	cfg := config.NewConfig()
	if cmd.DataDir != "" {
		cfg.Storage.DataDir = cmd.DataDir
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	svc, err := library.New(store, cfg)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	sess := entities.Session{Role: entities.RoleLibrarian, Name: "report"}

	rows, err := svc.OverdueRows(sess, asOf)
	if err != nil {
		return err
	}

	fmt.Printf("Overdue loans as of %s: %d\n", entities.FormatDate(asOf), len(rows))
	if len(rows) > 0 {
		renderOverdueTable(os.Stdout, rows, asOf)
	}

	if cmd.OutputPath != "" {
		if err := reports.WriteOverdueReport(cmd.OutputPath, rows, asOf); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", cmd.OutputPath)
	}

	return nil
}
