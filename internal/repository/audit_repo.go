package repository

import (
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/domain"
)

// AuditRepository append-only audit log writes
type AuditRepository interface {
	Create(entry *domain.AuditLog) error
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *domain.AuditLog) error {
	return r.db.Create(entry).Error
}
