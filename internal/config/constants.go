package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./locallibrary.db"

	DefaultPort = 3000

	// DefaultRateLimitPerMinute is the per-client request budget
	DefaultRateLimitPerMinute = 20
)
