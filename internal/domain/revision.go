package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Revision is an append-only snapshot of a content entity taken before an
// edit. entity_type + entity_id is a deliberately loose polymorphic
// reference (no foreign key) so one table serves every entity kind.
// Rows are never updated or deleted; the version number is derived by
// counting rows for the entity, not stored.
type Revision struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EntityType string         `gorm:"column:entity_type;index:revisions_entity" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"column:entity_id;index:revisions_entity" json:"entity_id"`
	AuthorID   uuid.UUID      `gorm:"column:author_id" json:"author_id"`
	Message    *string        `gorm:"column:message" json:"message,omitempty"`
	Snapshot   datatypes.JSON `gorm:"column:snapshot_jsonb" json:"snapshot"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Revision) TableName() string { return "revisions" }

// RevisionResponse revision plus its derived version number
type RevisionResponse struct {
	*Revision
	Version int64 `json:"version"`
}
