package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// LicenseRepository license data access
type LicenseRepository interface {
	FindByKey(key string) (*domain.License, error)
	FindByID(id uuid.UUID) (*domain.License, error)
	ListByUser(userID uuid.UUID) ([]*domain.License, error)
	Save(license *domain.License) error
}

type licenseRepository struct {
	db *gorm.DB
}

// NewLicenseRepository creates a new LicenseRepository
func NewLicenseRepository(db *gorm.DB) LicenseRepository {
	return &licenseRepository{db: db}
}

func (r *licenseRepository) FindByKey(key string) (*domain.License, error) {
	var license domain.License
	err := r.db.Preload("Product").Where("license_key = ?", key).First(&license).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepository) FindByID(id uuid.UUID) (*domain.License, error) {
	var license domain.License
	err := r.db.Where("id = ?", id).First(&license).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepository) ListByUser(userID uuid.UUID) ([]*domain.License, error) {
	var licenses []*domain.License
	err := r.db.
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&licenses).Error
	return licenses, err
}

func (r *licenseRepository) Save(license *domain.License) error {
	return r.db.Save(license).Error
}
