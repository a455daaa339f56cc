package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// PageRepository page data access
type PageRepository interface {
	Create(page *domain.Page) error
	FindByID(id uuid.UUID) (*domain.Page, error)
	FindBySlug(slug string) (*domain.Page, error)
	Save(page *domain.Page) error
	UpdateWithRevision(page *domain.Page, revision *domain.Revision) error
	SoftDelete(page *domain.Page) error
	ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Page, error)
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a new PageRepository
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *domain.Page) error {
	if err := r.db.Create(page).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *pageRepository) FindByID(id uuid.UUID) (*domain.Page, error) {
	var page domain.Page
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) FindBySlug(slug string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.Where("slug = ? AND is_deleted = ?", slug, false).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) Save(page *domain.Page) error {
	if err := r.db.Save(page).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *pageRepository) UpdateWithRevision(page *domain.Page, revision *domain.Revision) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(revision).Error; err != nil {
			return err
		}
		if err := tx.Save(page).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *pageRepository) SoftDelete(page *domain.Page) error {
	return r.db.Model(page).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *pageRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Page, error) {
	var pages []*domain.Page
	q := r.db.Where("is_deleted = ?", false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if after != nil {
		q = q.Where("(created_at, id) < (?::timestamptz, ?::uuid)", after.CreatedAt, after.ID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&pages).Error
	return pages, err
}
