package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:audit_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRecord(t *testing.T) {
	db := setupTestDB(t)

	err := Record(db, Entry{
		Action:     ActionCreate,
		EntityType: "property",
		EntityID:   "p-1",
		UserID:     "tester",
		Summary:    `created property "Villa Azure"`,
		After:      `{"id":"p-1"}`,
	})
	assert.NoError(t, err)

	var stored Entry
	assert.NoError(t, db.First(&stored).Error)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, ActionCreate, stored.Action)
	assert.Equal(t, "p-1", stored.EntityID)
}

func TestRecord_RollsBackWithTransaction(t *testing.T) {
	db := setupTestDB(t)

	_ = db.Transaction(func(tx *gorm.DB) error {
		if err := Record(tx, Entry{Action: ActionDelete, EntityType: "property", EntityID: "p-2", UserID: "tester"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})

	var count int64
	assert.NoError(t, db.Model(&Entry{}).Where("entity_id = ?", "p-2").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSnapshot(t *testing.T) {
	assert.Equal(t, "", Snapshot(nil))
	assert.Equal(t, `{"a":1}`, Snapshot(map[string]int{"a": 1}))
	// Unserializable input degrades to an empty snapshot.
	assert.Equal(t, "", Snapshot(make(chan int)))
}
