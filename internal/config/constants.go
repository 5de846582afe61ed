package config

const (
	DefaultDataDir        = "./data"
	DefaultDatabasePath   = "./data/library.db"
	DefaultLoanPeriodDays = 14
)
