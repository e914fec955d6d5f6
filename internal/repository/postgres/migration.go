package postgres

import (
	"database/sql"
	"fmt"
	"os"
)

// RunMigrations executes the schema file to initialize the database.
// The path probing keeps this working whether the binary runs from the
// repo root or from cmd/connect4.
func RunMigrations(db *sql.DB) error {
	possiblePaths := []string{
		"script/migration/schema.sql",
		"../script/migration/schema.sql",
		"../../script/migration/schema.sql",
	}

	schemaPath := possiblePaths[0]
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			schemaPath = path
			break
		}
	}

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		wd, _ := os.Getwd()
		return fmt.Errorf("failed to read migration file %s (cwd %s): %v", schemaPath, wd, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %v", err)
	}
	return nil
}
