package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// MediaRepository media asset metadata access
type MediaRepository interface {
	Create(asset *domain.MediaAsset) error
	FindByID(id uuid.UUID) (*domain.MediaAsset, error)
	SoftDelete(asset *domain.MediaAsset) error
	ListAfter(after *pagination.Cursor, limit int) ([]*domain.MediaAsset, error)
	Link(link *domain.AssetLink) error
	ListLinks(ownerType string, ownerID uuid.UUID) ([]*domain.AssetLink, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(asset *domain.MediaAsset) error {
	return r.db.Create(asset).Error
}

func (r *mediaRepository) FindByID(id uuid.UUID) (*domain.MediaAsset, error) {
	var asset domain.MediaAsset
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (r *mediaRepository) SoftDelete(asset *domain.MediaAsset) error {
	return r.db.Model(asset).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *mediaRepository) ListAfter(after *pagination.Cursor, limit int) ([]*domain.MediaAsset, error) {
	var assets []*domain.MediaAsset
	q := r.db.Where("is_deleted = ?", false)
	if after != nil {
		q = q.Where("(created_at, id) < (?::timestamptz, ?::uuid)", after.CreatedAt, after.ID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&assets).Error
	return assets, err
}

func (r *mediaRepository) Link(link *domain.AssetLink) error {
	return r.db.Create(link).Error
}

func (r *mediaRepository) ListLinks(ownerType string, ownerID uuid.UUID) ([]*domain.AssetLink, error) {
	var links []*domain.AssetLink
	err := r.db.
		Preload("Asset").
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Find(&links).Error
	return links, err
}
