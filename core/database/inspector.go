package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// RequiredTables are the tables the import pipelines read and write. The
// schema itself is managed by external migrations.
var RequiredTables = []string{
	"destinations",
	"properties",
	"contacts",
	"contact_properties",
	"bookings",
	"audit_logs",
}

// CheckSchema verifies that every required table exists, returning one error
// naming all missing tables. Called at startup so a misconfigured database
// fails loudly instead of at the first import.
func CheckSchema(db *gorm.DB) error {
	var missing []string
	for _, table := range RequiredTables {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database schema is missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}
