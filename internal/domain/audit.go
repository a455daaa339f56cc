package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records who did what to which entity. Writes to this table are
// best-effort: a failed audit insert degrades to a log warning and never
// aborts the operation that triggered it.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Action     string         `gorm:"column:action" json:"action"`
	EntityType string         `gorm:"column:entity_type" json:"entity_type"`
	EntityID   *uuid.UUID     `gorm:"column:entity_id" json:"entity_id,omitempty"`
	Metadata   datatypes.JSON `gorm:"column:metadata_jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
