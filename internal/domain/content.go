package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entity type tags used by revisions, blocks and asset links.
// These are loose string references, not foreign keys.
const (
	EntityPost     = "post"
	EntityPage     = "page"
	EntityTemplate = "template"
	EntityProduct  = "product"
)

// ContentFields is the shared shape of workflow-managed content.
// Post, Page and Template embed it; each keeps its own table.
type ContentFields struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID      `gorm:"column:author_id;index" json:"author_id"`
	Slug        string         `gorm:"column:slug;uniqueIndex" json:"slug"`
	Title       string         `gorm:"column:title" json:"title"`
	Status      Status         `gorm:"column:status;default:'draft'" json:"status"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	ArchivedAt  *time.Time     `gorm:"column:archived_at" json:"archived_at,omitempty"`
	Content     datatypes.JSON `gorm:"column:content_jsonb" json:"content"`
	IsDeleted   bool           `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt   *time.Time     `gorm:"column:deleted_at" json:"-"`
	CreatedAt   time.Time      `gorm:"column:created_at;index:,sort:desc;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Snapshot serializes the entity state captured by a revision.
// Taken before an update is applied, so it records the pre-update state.
func (f *ContentFields) Snapshot() datatypes.JSON {
	snap := map[string]interface{}{
		"slug":    f.Slug,
		"title":   f.Title,
		"status":  f.Status,
		"content": json.RawMessage(f.Content),
	}
	if len(f.Content) == 0 {
		snap["content"] = json.RawMessage("{}")
	}
	data, _ := json.Marshal(snap)
	return data
}

// Post a blog/news article
type Post struct {
	ContentFields
	Excerpt          *string    `gorm:"column:excerpt" json:"excerpt,omitempty"`
	FeaturedImageURL *string    `gorm:"column:featured_image_url" json:"featured_image_url,omitempty"`
	SEOID            *uuid.UUID `gorm:"column:seo_id" json:"seo_id,omitempty"`

	Tags       []*Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Categories []*Category `gorm:"many2many:post_categories" json:"categories,omitempty"`
}

func (Post) TableName() string { return "posts" }

// Page a standalone CMS page
type Page struct {
	ContentFields
	SEOID *uuid.UUID `gorm:"column:seo_id" json:"seo_id,omitempty"`
}

func (Page) TableName() string { return "pages" }

// Template a reusable site template; Title doubles as its display name
type Template struct {
	ContentFields
	Description *string `gorm:"column:description" json:"description,omitempty"`
}

func (Template) TableName() string { return "templates" }

// CreateContentRequest create payload shared by posts, pages and templates.
// Excerpt applies to posts only; Description to templates only.
type CreateContentRequest struct {
	Title       string          `json:"title" binding:"required"`
	Slug        *string         `json:"slug"`
	Content     json.RawMessage `json:"content"`
	Excerpt     *string         `json:"excerpt"`
	Description *string         `json:"description"`
	Message     *string         `json:"message"`
}

// UpdateContentRequest partial update payload; nil fields are untouched
type UpdateContentRequest struct {
	Title       *string         `json:"title"`
	Slug        *string         `json:"slug"`
	Content     json.RawMessage `json:"content"`
	Excerpt     *string         `json:"excerpt"`
	Description *string         `json:"description"`
	Message     *string         `json:"message"`
}
