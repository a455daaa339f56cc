package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// PostRepository post data access
type PostRepository interface {
	Create(post *domain.Post) error
	FindByID(id uuid.UUID) (*domain.Post, error)
	FindBySlug(slug string) (*domain.Post, error)
	Save(post *domain.Post) error
	// UpdateWithRevision inserts the pre-update snapshot and saves the
	// mutated post inside one transaction, revision first, so a partial
	// failure never leaves an update without its snapshot.
	UpdateWithRevision(post *domain.Post, revision *domain.Revision) error
	SoftDelete(post *domain.Post) error
	// ListAfter fetches up to limit rows ordered (created_at DESC, id DESC)
	// strictly after the cursor boundary. Callers pass pageSize+1 to detect
	// a next page.
	ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Post, error)
	AttachTags(post *domain.Post, tags []*domain.Tag) error
	AttachCategories(post *domain.Post, categories []*domain.Category) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *domain.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *postRepository) FindByID(id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.
		Preload("Tags").Preload("Categories").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(slug string) (*domain.Post, error) {
	var post domain.Post
	err := r.db.
		Preload("Tags").Preload("Categories").
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Save(post *domain.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return err
	}
	return nil
}

func (r *postRepository) UpdateWithRevision(post *domain.Post, revision *domain.Revision) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(revision).Error; err != nil {
			return err
		}
		if err := tx.Save(post).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *postRepository) SoftDelete(post *domain.Post) error {
	return r.db.Model(post).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *postRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Post, error) {
	var posts []*domain.Post
	q := r.db.Where("is_deleted = ?", false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if after != nil {
		// Tuple comparison matches the (created_at DESC, id DESC) ordering;
		// ties on created_at break on id.
		q = q.Where("(created_at, id) < (?::timestamptz, ?::uuid)", after.CreatedAt, after.ID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) AttachTags(post *domain.Post, tags []*domain.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

func (r *postRepository) AttachCategories(post *domain.Post, categories []*domain.Category) error {
	return r.db.Model(post).Association("Categories").Replace(categories)
}
