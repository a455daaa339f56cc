package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// TaxonomyRepository tag and category data access
type TaxonomyRepository interface {
	CreateTag(tag *domain.Tag) error
	FindTagBySlug(slug string) (*domain.Tag, error)
	FindTagsByID(ids []uuid.UUID) ([]*domain.Tag, error)
	ListTags() ([]*domain.Tag, error)

	CreateCategory(category *domain.Category) error
	FindCategoryBySlug(slug string) (*domain.Category, error)
	FindCategoriesByID(ids []uuid.UUID) ([]*domain.Category, error)
	ListCategories() ([]*domain.Category, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) CreateTag(tag *domain.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *taxonomyRepository) FindTagBySlug(slug string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *taxonomyRepository) FindTagsByID(ids []uuid.UUID) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *taxonomyRepository) ListTags() ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *taxonomyRepository) CreateCategory(category *domain.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *taxonomyRepository) FindCategoryBySlug(slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.Preload("Children").Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *taxonomyRepository) FindCategoriesByID(ids []uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

func (r *taxonomyRepository) ListCategories() ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.Preload("Children").Where("parent_id IS NULL").Order("name ASC").Find(&categories).Error
	return categories, err
}
