package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./bookviewer.db"

	// DefaultPageSize is the number of rows per dashboard table page
	DefaultPageSize = 10
)
