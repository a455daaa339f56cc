package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Block a typed content fragment owned by a post, page or template.
// owner_type + owner_id is a loose polymorphic reference.
type Block struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerType string         `gorm:"column:owner_type;index:blocks_owner" json:"owner_type"`
	OwnerID   uuid.UUID      `gorm:"column:owner_id;index:blocks_owner" json:"owner_id"`
	SortOrder int            `gorm:"column:sort_order;default:0" json:"sort_order"`
	BlockType string         `gorm:"column:block_type" json:"block_type"`
	Data      datatypes.JSON `gorm:"column:data_jsonb" json:"data"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Block) TableName() string { return "blocks" }

// AddBlockRequest append a block to an owner entity
type AddBlockRequest struct {
	OwnerType string          `json:"owner_type" binding:"required,oneof=post page template"`
	OwnerID   uuid.UUID       `json:"owner_id" binding:"required"`
	BlockType string          `json:"block_type" binding:"required"`
	Data      json.RawMessage `json:"data"`
}

// ReorderBlocksRequest replace the sort order for an owner's blocks
type ReorderBlocksRequest struct {
	OwnerType  string      `json:"owner_type" binding:"required,oneof=post page template"`
	OwnerID    uuid.UUID   `json:"owner_id" binding:"required"`
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}
