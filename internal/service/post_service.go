package service

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/internal/workflow"
)

// PostService orchestrates the post lifecycle: creation, partial updates
// with revision snapshots, workflow transitions and soft deletion.
type PostService interface {
	Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Post, error)
	GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error)
	GetBySlug(viewer *authz.Viewer, slug string) (*domain.Post, error)
	Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Post, error)
	Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error)
	Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error)
	Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error)
	SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error)
	Delete(viewer *authz.Viewer, id uuid.UUID) error
	List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Post], error)
	ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error)
	SetTags(viewer *authz.Viewer, id uuid.UUID, tagIDs []uuid.UUID) (*domain.Post, error)
	SetCategories(viewer *authz.Viewer, id uuid.UUID, categoryIDs []uuid.UUID) (*domain.Post, error)
}

type postService struct {
	postRepo     repository.PostRepository
	revisionRepo repository.RevisionRepository
	taxonomyRepo repository.TaxonomyRepository
	audit        AuditService
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repository.PostRepository,
	revisionRepo repository.RevisionRepository,
	taxonomyRepo repository.TaxonomyRepository,
	audit AuditService,
) PostService {
	return &postService{
		postRepo:     postRepo,
		revisionRepo: revisionRepo,
		taxonomyRepo: taxonomyRepo,
		audit:        audit,
	}
}

func (s *postService) Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Post, error) {
	if err := authz.RequirePermission(viewer, authz.PermPostCreate); err != nil {
		return nil, err
	}

	post := &domain.Post{
		ContentFields: domain.ContentFields{
			ID:       uuid.New(),
			AuthorID: viewer.UserID,
			Title:    req.Title,
			Status:   domain.StatusDraft,
		},
		Excerpt: req.Excerpt,
	}
	if len(req.Content) > 0 {
		post.Content = datatypes.JSON(req.Content)
	}

	base, err := resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}
	err = createWithSlugRetry(base,
		func(v string) { post.Slug = v },
		func() error { return s.postRepo.Create(post) },
	)
	if err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, domain.EntityPost, &post.ID, map[string]interface{}{"slug": post.Slug})
	return post, nil
}

func (s *postService) GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, post)
}

func (s *postService) GetBySlug(viewer *authz.Viewer, slug string) (*domain.Post, error) {
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, post)
}

// guardRead hides non-published posts from viewers who are neither the
// author nor publishers.
func (s *postService) guardRead(viewer *authz.Viewer, post *domain.Post) (*domain.Post, error) {
	if post.Status == domain.StatusPublished {
		return post, nil
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish); err != nil {
		return nil, err
	}

	// The snapshot is taken before any field is mutated, so the revision
	// records the state the update replaced.
	revision := &domain.Revision{
		ID:         uuid.New(),
		EntityType: domain.EntityPost,
		EntityID:   post.ID,
		AuthorID:   viewer.UserID,
		Message:    req.Message,
		Snapshot:   post.Snapshot(),
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Slug != nil {
		newSlug, err := resolveSlug(req.Slug, post.Title)
		if err != nil {
			return nil, err
		}
		post.Slug = newSlug
	}
	if len(req.Content) > 0 {
		post.Content = datatypes.JSON(req.Content)
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	}

	if err := s.postRepo.UpdateWithRevision(post, revision); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionUpdate, domain.EntityPost, &post.ID, nil)
	return post, nil
}

func (s *postService) Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error) {
	return s.transition(viewer, id, authz.PermPostPublish, ActionPublish, workflow.Publish)
}

func (s *postService) Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error) {
	return s.transition(viewer, id, authz.PermPostPublish, ActionUnpublish, workflow.Unpublish)
}

func (s *postService) Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error) {
	return s.transition(viewer, id, authz.PermPostArchive, ActionArchive, workflow.Archive)
}

func (s *postService) transition(viewer *authz.Viewer, id uuid.UUID, perm, action string, move func(*domain.ContentFields) error) (*domain.Post, error) {
	// The permission does not depend on the row, so it is checked before
	// the load; unauthorized callers learn nothing about which IDs exist.
	if err := authz.RequirePermission(viewer, perm); err != nil {
		return nil, err
	}
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := move(&post.ContentFields); err != nil {
		return nil, err
	}
	if err := s.postRepo.Save(post); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, action, domain.EntityPost, &post.ID, map[string]interface{}{"status": post.Status})
	return post, nil
}

func (s *postService) SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish); err != nil {
		return nil, err
	}
	if err := workflow.SubmitForReview(&post.ContentFields); err != nil {
		return nil, err
	}
	if err := s.postRepo.Save(post); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionReview, domain.EntityPost, &post.ID, nil)
	return post, nil
}

// Delete soft-deletes only; rows are never removed so revisions and audit
// entries keep a valid target.
func (s *postService) Delete(viewer *authz.Viewer, id uuid.UUID) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostArchive); err != nil {
		return err
	}
	if err := s.postRepo.SoftDelete(post); err != nil {
		return err
	}

	s.audit.Record(&viewer.UserID, ActionDelete, domain.EntityPost, &post.ID, nil)
	return nil
}

func (s *postService) List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Post], error) {
	if status != "" && !status.Valid() {
		return nil, common.ErrInvalidInput
	}
	// Listing anything but published content is an editorial view.
	if status != domain.StatusPublished {
		if err := authz.RequirePermission(viewer, authz.PermPostCreate); err != nil {
			return nil, err
		}
	}

	cursor, err := decodeAfter(after)
	if err != nil {
		return nil, err
	}
	size := pagination.ClampPageSize(pageSize)

	posts, err := s.postRepo.ListAfter(cursor, size+1, status)
	if err != nil {
		return nil, err
	}

	return pagination.BuildConnection(posts, size, func(p *domain.Post) string {
		return pagination.EncodeTime(p.CreatedAt, p.ID.String())
	}), nil
}

func (s *postService) ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error) {
	if _, err := s.postRepo.FindByID(id); err != nil {
		return nil, err
	}
	revisions, err := s.revisionRepo.ListByEntity(domain.EntityPost, id)
	if err != nil {
		return nil, err
	}
	total, err := s.revisionRepo.CountByEntity(domain.EntityPost, id)
	if err != nil {
		return nil, err
	}
	return revisionResponses(revisions, total), nil
}

func (s *postService) SetTags(viewer *authz.Viewer, id uuid.UUID, tagIDs []uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish); err != nil {
		return nil, err
	}
	tags, err := s.taxonomyRepo.FindTagsByID(tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, common.ErrNotFound
	}
	if err := s.postRepo.AttachTags(post, tags); err != nil {
		return nil, err
	}
	post.Tags = tags
	return post, nil
}

func (s *postService) SetCategories(viewer *authz.Viewer, id uuid.UUID, categoryIDs []uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish); err != nil {
		return nil, err
	}
	categories, err := s.taxonomyRepo.FindCategoriesByID(categoryIDs)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(categoryIDs) {
		return nil, common.ErrNotFound
	}
	if err := s.postRepo.AttachCategories(post, categories); err != nil {
		return nil, err
	}
	post.Categories = categories
	return post, nil
}
