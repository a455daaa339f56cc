package domain

import (
	"time"

	"github.com/google/uuid"
)

// NavMenu a named navigation menu (header, footer, ...)
type NavMenu struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"column:slug;uniqueIndex" json:"slug"`
	Name      string    `gorm:"column:name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []*NavItem `gorm:"foreignKey:MenuID" json:"items,omitempty"`
}

func (NavMenu) TableName() string { return "nav_menus" }

// NavItem an entry in a menu; links to an external href or a CMS page
type NavItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MenuID    uuid.UUID  `gorm:"column:menu_id;index" json:"menu_id"`
	ParentID  *uuid.UUID `gorm:"column:parent_id" json:"parent_id,omitempty"`
	SortOrder int        `gorm:"column:sort_order;default:0" json:"sort_order"`
	Label     string     `gorm:"column:label" json:"label"`
	Href      *string    `gorm:"column:href" json:"href,omitempty"`
	PageID    *uuid.UUID `gorm:"column:page_id" json:"page_id,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Children []*NavItem `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (NavItem) TableName() string { return "nav_items" }

// AddNavItemRequest append an item to a menu
type AddNavItemRequest struct {
	ParentID  *uuid.UUID `json:"parent_id"`
	Label     string     `json:"label" binding:"required"`
	Href      *string    `json:"href"`
	PageID    *uuid.UUID `json:"page_id"`
	SortOrder int        `json:"sort_order"`
}
