package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// TemplateRepository template data access
type TemplateRepository interface {
	Create(tpl *domain.Template) error
	FindByID(id uuid.UUID) (*domain.Template, error)
	FindBySlug(slug string) (*domain.Template, error)
	Save(tpl *domain.Template) error
	UpdateWithRevision(tpl *domain.Template, revision *domain.Revision) error
	SoftDelete(tpl *domain.Template) error
	ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Template, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(tpl *domain.Template) error {
	if err := r.db.Create(tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *templateRepository) FindByID(id uuid.UUID) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) FindBySlug(slug string) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.Where("slug = ? AND is_deleted = ?", slug, false).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) Save(tpl *domain.Template) error {
	if err := r.db.Save(tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *templateRepository) UpdateWithRevision(tpl *domain.Template, revision *domain.Revision) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(revision).Error; err != nil {
			return err
		}
		if err := tx.Save(tpl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *templateRepository) SoftDelete(tpl *domain.Template) error {
	return r.db.Model(tpl).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *templateRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Template, error) {
	var tpls []*domain.Template
	q := r.db.Where("is_deleted = ?", false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if after != nil {
		q = q.Where("(created_at, id) < (?::timestamptz, ?::uuid)", after.CreatedAt, after.ID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&tpls).Error
	return tpls, err
}
