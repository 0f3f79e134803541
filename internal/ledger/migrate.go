package ledger

import "github.com/Veraticus/finansowy-tracker/internal/model"

// Migration rewrites a decoded ledger record from one schema version to the next.
type Migration struct {
	Up          func(*model.Database)
	From        string
	To          string
	Description string
}

// migrations is ordered by From. Versions without a registered step are
// bumped straight to model.SchemaVersion.
var migrations = []Migration{}

// migrate applies registered steps until db reaches model.SchemaVersion.
func migrate(db *model.Database) {
	for db.Version != model.SchemaVersion {
		step, ok := findMigration(db.Version)
		if !ok {
			db.Version = model.SchemaVersion
			return
		}
		step.Up(db)
		db.Version = step.To
	}
}

func findMigration(from string) (Migration, bool) {
	for _, m := range migrations {
		if m.From == from {
			return m, true
		}
	}
	return Migration{}, false
}
