package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
)

// BlockRepository content block data access
type BlockRepository interface {
	Create(block *domain.Block) error
	FindByID(id uuid.UUID) (*domain.Block, error)
	ListByOwner(ownerType string, ownerID uuid.UUID) ([]*domain.Block, error)
	// Reorder rewrites sort_order for the owner's blocks in one transaction.
	Reorder(ownerType string, ownerID uuid.UUID, orderedIDs []uuid.UUID) error
	Delete(id uuid.UUID) error
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(block *domain.Block) error {
	return r.db.Create(block).Error
}

func (r *blockRepository) FindByID(id uuid.UUID) (*domain.Block, error) {
	var block domain.Block
	err := r.db.Where("id = ?", id).First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) ListByOwner(ownerType string, ownerID uuid.UUID) ([]*domain.Block, error) {
	var blocks []*domain.Block
	err := r.db.
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("sort_order ASC, created_at ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *blockRepository) Reorder(ownerType string, ownerID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&domain.Block{}).
				Where("id = ? AND owner_type = ? AND owner_id = ?", id, ownerType, ownerID).
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

func (r *blockRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&domain.Block{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
