package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// Tests load it through GetSchemaSQL() and must not carry their own
// CREATE TABLE statements. When adding columns or tables, add a migration
// in migrations.go and update SchemaSQL here.
const SchemaSQL = `
-- Members in assignment order
CREATE TABLE IF NOT EXISTS members (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT ''
);

-- Tasks of every collection; member_position is set only for member tasks
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL CHECK(collection IN ('backlog', 'todo', 'member', 'completed')),
	member_position INTEGER,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	priority INTEGER NOT NULL,
	due_date TEXT NOT NULL DEFAULT '',
	completed_date TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (member_position) REFERENCES members(position) ON DELETE CASCADE,
	CHECK((collection = 'member') = (member_position IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_tasks_collection ON tasks(collection, member_position, position);

-- Meeting agenda in display order
CREATE TABLE IF NOT EXISTS agenda_items (
	position INTEGER PRIMARY KEY,
	item TEXT NOT NULL
);

-- Single-row board metadata
CREATE TABLE IF NOT EXISTS board_meta (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	general_notes TEXT NOT NULL DEFAULT '',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the schema on a fresh database and migrates an
// existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install - create the current schema and mark every migration applied
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
