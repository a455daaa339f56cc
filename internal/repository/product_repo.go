package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// ProductRepository product catalog data access
type ProductRepository interface {
	Create(product *domain.Product) error
	FindByID(id uuid.UUID) (*domain.Product, error)
	FindBySlug(slug string) (*domain.Product, error)
	Save(product *domain.Product) error
	SoftDelete(product *domain.Product) error
	ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *domain.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Where("slug = ? AND is_deleted = ?", slug, false).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Save(product *domain.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *productRepository) SoftDelete(product *domain.Product) error {
	return r.db.Model(product).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *productRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Product, error) {
	var products []*domain.Product
	q := r.db.Where("is_deleted = ?", false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if after != nil {
		q = q.Where("(created_at, id) < (?::timestamptz, ?::uuid)", after.CreatedAt, after.ID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&products).Error
	return products, err
}
