package config

import (
	"github.com/spf13/viper"
)

type Backend string

const (
	BackendCSV    Backend = "csv"    // delimited text files with header rows (default)
	BackendSQLite Backend = "sqlite" // embedded sqlite database
)

type (
	Config struct {
		Storage
		Library
		Auth
		Audit
	}

	Storage struct {
		Backend Backend
		DataDir string // directory holding books.csv / members.csv / loans.csv
		DBPath  string // sqlite database file (sqlite backend only)
	}
	Library struct {
		LoanPeriodDays int
	}
	Auth struct {
		BcryptCost        int
		MinPasswordLength int
		LibrarianUsername string
		LibrarianPassword string // hashed at startup, never stored
	}
	Audit struct {
		Dir     string
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("storage_backend", string(BackendCSV))
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("loan_period_days", DefaultLoanPeriodDays)

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_min_password_length", 8)
	v.SetDefault("librarian_username", "admin")
	v.SetDefault("librarian_password", "")

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_dir", "./audit")

	return &Config{
		Storage: Storage{
			Backend: Backend(v.GetString("STORAGE_BACKEND")),
			DataDir: v.GetString("DATA_DIR"),
			DBPath:  v.GetString("DATABASE_PATH"),
		},
		Library: Library{
			LoanPeriodDays: v.GetInt("LOAN_PERIOD_DAYS"),
		},
		Auth: Auth{
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
			LibrarianUsername: v.GetString("LIBRARIAN_USERNAME"),
			LibrarianPassword: v.GetString("LIBRARIAN_PASSWORD"),
		},
		Audit: Audit{
			Dir:     v.GetString("AUDIT_DIR"),
			Enabled: v.GetBool("AUDIT_ENABLED"),
		},
	}
}
