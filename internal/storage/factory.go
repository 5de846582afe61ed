package storage

import (
	"fmt"

	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/storage/csvstore"
	"github.com/mrlokans/librarium/internal/storage/sqlitestore"
)

var (
	_ Store = (*csvstore.Store)(nil)
	_ Store = (*sqlitestore.Store)(nil)
)

// Open creates the store selected by configuration.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.BackendCSV, "":
		return csvstore.New(cfg.DataDir)
	case config.BackendSQLite:
		return sqlitestore.New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
