package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// PurchaseRepository purchase data access
type PurchaseRepository interface {
	Create(purchase *domain.Purchase) error
	// CreateWithLicense inserts the license and the purchase that granted it
	// in one transaction so a purchase never points at a missing license.
	CreateWithLicense(purchase *domain.Purchase, license *domain.License) error
	FindByID(id uuid.UUID) (*domain.Purchase, error)
	ListByUser(userID uuid.UUID) ([]*domain.Purchase, error)
	Save(purchase *domain.Purchase) error
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(purchase *domain.Purchase) error {
	if err := r.db.Create(purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *purchaseRepository) CreateWithLicense(purchase *domain.Purchase, license *domain.License) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(license).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict
			}
			return err
		}
		purchase.LicenseID = &license.ID
		if err := tx.Create(purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *purchaseRepository) FindByID(id uuid.UUID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.db.Preload("Product").Where("id = ?", id).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) ListByUser(userID uuid.UUID) ([]*domain.Purchase, error) {
	var purchases []*domain.Purchase
	err := r.db.
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) Save(purchase *domain.Purchase) error {
	return r.db.Save(purchase).Error
}
