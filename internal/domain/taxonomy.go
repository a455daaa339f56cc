package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag flat label attached to posts
type Tag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"column:slug;uniqueIndex" json:"slug"`
	Name      string    `gorm:"column:name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

// Category hierarchical label attached to posts
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug      string     `gorm:"column:slug;uniqueIndex" json:"slug"`
	Name      string     `gorm:"column:name" json:"name"`
	ParentID  *uuid.UUID `gorm:"column:parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Children []*Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Category) TableName() string { return "categories" }

// SEO per-entity metadata for search engines and social cards
type SEO struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title         *string   `gorm:"column:title" json:"title,omitempty"`
	Description   *string   `gorm:"column:description" json:"description,omitempty"`
	CanonicalURL  *string   `gorm:"column:canonical_url" json:"canonical_url,omitempty"`
	OGTitle       *string   `gorm:"column:og_title" json:"og_title,omitempty"`
	OGDescription *string   `gorm:"column:og_description" json:"og_description,omitempty"`
	OGImageURL    *string   `gorm:"column:og_image_url" json:"og_image_url,omitempty"`
	TwitterCard   *string   `gorm:"column:twitter_card" json:"twitter_card,omitempty"`
	NoIndex       bool      `gorm:"column:noindex;default:false" json:"noindex"`
	NoFollow      bool      `gorm:"column:nofollow;default:false" json:"nofollow"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SEO) TableName() string { return "seo" }

// CreateTaxonomyRequest create payload for tags and categories
type CreateTaxonomyRequest struct {
	Name     string     `json:"name" binding:"required"`
	Slug     *string    `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id"`
}
