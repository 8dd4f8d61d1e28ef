package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchema(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	t.Run("Missing Tables", func(t *testing.T) {
		err := CheckSchema(db)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bookings")
		assert.Contains(t, err.Error(), "audit_logs")
	})

	t.Run("All Present", func(t *testing.T) {
		for _, table := range RequiredTables {
			require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS "+table+" (id TEXT PRIMARY KEY)").Error)
		}
		assert.NoError(t, CheckSchema(db))
	})
}
