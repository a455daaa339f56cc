package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// NavigationRepository nav menu and item data access
type NavigationRepository interface {
	CreateMenu(menu *domain.NavMenu) error
	FindMenuBySlug(slug string) (*domain.NavMenu, error)
	ListMenus() ([]*domain.NavMenu, error)
	AddItem(item *domain.NavItem) error
	DeleteItem(id uuid.UUID) error
	ReorderItems(menuID uuid.UUID, orderedIDs []uuid.UUID) error
}

type navigationRepository struct {
	db *gorm.DB
}

// NewNavigationRepository creates a new NavigationRepository
func NewNavigationRepository(db *gorm.DB) NavigationRepository {
	return &navigationRepository{db: db}
}

func (r *navigationRepository) CreateMenu(menu *domain.NavMenu) error {
	if err := r.db.Create(menu).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *navigationRepository) FindMenuBySlug(slug string) (*domain.NavMenu, error) {
	var menu domain.NavMenu
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_id IS NULL").Order("sort_order ASC")
		}).
		Preload("Items.Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("slug = ?", slug).
		First(&menu).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *navigationRepository) ListMenus() ([]*domain.NavMenu, error) {
	var menus []*domain.NavMenu
	err := r.db.Order("name ASC").Find(&menus).Error
	return menus, err
}

func (r *navigationRepository) AddItem(item *domain.NavItem) error {
	return r.db.Create(item).Error
}

func (r *navigationRepository) DeleteItem(id uuid.UUID) error {
	res := r.db.Delete(&domain.NavItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *navigationRepository) ReorderItems(menuID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&domain.NavItem{}).
				Where("id = ? AND menu_id = ?", id, menuID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return common.ErrNotFound
			}
		}
		return nil
	})
}
