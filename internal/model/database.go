package model

import "time"

// SchemaVersion is the version written by the current code.
const SchemaVersion = "1.0.0"

// Database is the persisted ledger record: the transaction log and the category lists.
type Database struct {
	Version      string        `json:"version"`
	Transactions []Transaction `json:"transactions"`
	Categories   CategorySet   `json:"categories"`
}

// DefaultDatabase returns an empty ledger seeded with the default categories.
func DefaultDatabase() Database {
	return Database{
		Version:      SchemaVersion,
		Transactions: []Transaction{},
		Categories:   DefaultCategories(),
	}
}

// Snapshot is the export file layout.
type Snapshot struct {
	ExportDate time.Time `json:"exportDate"`
	Settings   *Settings `json:"settings,omitempty"`
	Database   Database  `json:"database"`
}
