package entrypoint

import (
	"log"

	"github.com/mrlokans/librarium/internal/audit"
	"github.com/mrlokans/librarium/internal/auth"
	"github.com/mrlokans/librarium/internal/cli"
	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/library"
	"github.com/mrlokans/librarium/internal/storage"
)

// Run wires the application together and starts the interactive
// console. Failure to load the initial data store is the one fatal
// startup error.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarium v%s", version)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Printf("Error closing store: %v", err)
			}
		}
	}()

	svc, err := library.New(store, cfg)
	if err != nil {
		log.Fatalf("Failed to load library data: %v", err)
	}

	authSvc, err := auth.NewService(svc, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize authentication: %v", err)
	}
	if cfg.Auth.LibrarianPassword == "" {
		log.Printf("WARNING: LIBRARIAN_PASSWORD is not set. Librarian login will be disabled.")
	}

	var auditSvc *audit.Service
	if cfg.Audit.Enabled {
		auditSvc = audit.NewService(audit.NewAuditor(cfg.Audit.Dir))
	}

	console := cli.NewConsole(svc, authSvc, auditSvc)
	console.Run()
}
