package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaAsset an uploaded file's metadata record; bytes live in object storage
type MediaAsset struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UploaderID      *uuid.UUID `gorm:"column:uploader_id" json:"uploader_id,omitempty"`
	FileName        string     `gorm:"column:file_name" json:"file_name"`
	ContentType     string     `gorm:"column:content_type" json:"content_type"`
	ByteSize        int64      `gorm:"column:byte_size" json:"byte_size"`
	StorageProvider string     `gorm:"column:storage_provider;default:'s3'" json:"storage_provider"`
	StorageBucket   *string    `gorm:"column:storage_bucket" json:"storage_bucket,omitempty"`
	StorageKey      string     `gorm:"column:storage_key" json:"storage_key"`
	PublicURL       *string    `gorm:"column:public_url" json:"public_url,omitempty"`
	ChecksumSHA256  *string    `gorm:"column:checksum_sha256" json:"checksum_sha256,omitempty"`
	IsDeleted       bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt       *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at;index:,sort:desc;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MediaAsset) TableName() string { return "media_assets" }

// AssetLink attaches an asset to a content entity (loose polymorphic owner)
type AssetLink struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AssetID   uuid.UUID `gorm:"column:asset_id;index" json:"asset_id"`
	OwnerType string    `gorm:"column:owner_type;index:asset_links_owner" json:"owner_type"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;index:asset_links_owner" json:"owner_id"`
	Note      *string   `gorm:"column:note" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Asset *MediaAsset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

func (AssetLink) TableName() string { return "asset_links" }
