package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action classifies an audit entry.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entry is one audit-log record. The audit trail is write-only from the
// pipeline's perspective; nothing in this repository reads it back.
type Entry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Action     string    `gorm:"size:16;not null" json:"action"`
	EntityType string    `gorm:"size:32;not null;index" json:"entity_type"`
	EntityID   string    `gorm:"size:36;not null;index" json:"entity_id"`
	UserID     string    `gorm:"size:64;not null" json:"user_id"`
	Summary    string    `gorm:"size:512" json:"summary"`
	Before     string    `gorm:"type:text" json:"before,omitempty"`
	After      string    `gorm:"type:text" json:"after,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName maps the model to the audit_logs table.
func (Entry) TableName() string {
	return "audit_logs"
}

// Record appends one entry in the caller's transaction, so an aborted batch
// also rolls back its audit trail. The entry ID and timestamp are assigned
// here.
func Record(tx *gorm.DB, entry Entry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	return tx.Create(&entry).Error
}

// Snapshot serializes an entity state for the Before/After fields. Bad input
// degrades to an empty snapshot rather than failing the write.
func Snapshot(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
