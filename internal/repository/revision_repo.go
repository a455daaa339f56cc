package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/domain"
)

// RevisionRepository append-only content snapshot log.
// Rows are never updated or deleted; the version number is derived by
// counting rows at query time rather than incrementing a stored counter.
// That trades a count query for freedom from a read-modify-write race.
type RevisionRepository interface {
	Create(revision *domain.Revision) error
	ListByEntity(entityType string, entityID uuid.UUID) ([]*domain.Revision, error)
	CountByEntity(entityType string, entityID uuid.UUID) (int64, error)
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(revision *domain.Revision) error {
	return r.db.Create(revision).Error
}

func (r *revisionRepository) ListByEntity(entityType string, entityID uuid.UUID) ([]*domain.Revision, error) {
	var revisions []*domain.Revision
	err := r.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) CountByEntity(entityType string, entityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Revision{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error
	return count, err
}
