package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product types
const (
	ProductTypeTemplate = "template"
	ProductTypeLicense  = "license"
	ProductTypeService  = "service"
)

// License statuses
const (
	LicenseActive  = "active"
	LicenseRevoked = "revoked"
	LicenseExpired = "expired"
)

// Purchase statuses
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseRefunded  = "refunded"
)

// Product a marketplace listing; shares the editorial workflow statuses
type Product struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug        string     `gorm:"column:slug;uniqueIndex" json:"slug"`
	Name        string     `gorm:"column:name" json:"name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	ProductType string     `gorm:"column:product_type;default:'template'" json:"product_type"`
	PriceCents  int        `gorm:"column:price_cents;default:0" json:"price_cents"`
	Currency    string     `gorm:"column:currency;default:'USD'" json:"currency"`
	Status      Status     `gorm:"column:status;default:'draft'" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	IsDeleted   bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt   time.Time  `gorm:"column:created_at;index:,sort:desc;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// License a key granting use of a product
type License struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID  `gorm:"column:product_id;index" json:"product_id"`
	UserID     *uuid.UUID `gorm:"column:user_id" json:"user_id,omitempty"`
	LicenseKey string     `gorm:"column:license_key;uniqueIndex" json:"license_key"`
	Status     string     `gorm:"column:status;default:'active'" json:"status"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (License) TableName() string { return "licenses" }

// Purchase a completed (or pending) order for one product
type Purchase struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        *uuid.UUID `gorm:"column:user_id;index" json:"user_id,omitempty"`
	ProductID     uuid.UUID  `gorm:"column:product_id;index" json:"product_id"`
	LicenseID     *uuid.UUID `gorm:"column:license_id" json:"license_id,omitempty"`
	AmountCents   int        `gorm:"column:amount_cents" json:"amount_cents"`
	Currency      string     `gorm:"column:currency;default:'USD'" json:"currency"`
	Provider      string     `gorm:"column:provider;default:'manual'" json:"provider"`
	ProviderTxnID *string    `gorm:"column:provider_txn_id" json:"provider_txn_id,omitempty"`
	Status        string     `gorm:"column:status;default:'completed'" json:"status"`
	CreatedAt     time.Time  `gorm:"column:created_at;index:,sort:desc;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Purchase) TableName() string { return "purchases" }

// CreateProductRequest product create payload
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ProductType string  `json:"product_type" binding:"omitempty,oneof=template license service"`
	PriceCents  int     `json:"price_cents" binding:"gte=0"`
	Currency    string  `json:"currency"`
}

// UpdateProductRequest partial product update; nil fields are untouched
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"price_cents"`
	Currency    *string `json:"currency"`
}

// CreatePurchaseRequest purchase payload
type CreatePurchaseRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	Provider      string    `json:"provider"`
	ProviderTxnID *string   `json:"provider_txn_id"`
}

// VerifyLicenseRequest license verification payload
type VerifyLicenseRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
}

// VerifyLicenseResponse outcome of a license check
type VerifyLicenseResponse struct {
	Valid     bool       `json:"valid"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Product   *Product   `json:"product,omitempty"`
}
