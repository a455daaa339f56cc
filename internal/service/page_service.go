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

// PageService page lifecycle. Pages share the post workflow but use the
// page permission keys.
type PageService interface {
	Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Page, error)
	GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error)
	GetBySlug(viewer *authz.Viewer, slug string) (*domain.Page, error)
	Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Page, error)
	Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error)
	Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error)
	Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error)
	SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error)
	Delete(viewer *authz.Viewer, id uuid.UUID) error
	List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Page], error)
	ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error)
}

type pageService struct {
	pageRepo     repository.PageRepository
	revisionRepo repository.RevisionRepository
	audit        AuditService
}

// NewPageService creates a new PageService
func NewPageService(pageRepo repository.PageRepository, revisionRepo repository.RevisionRepository, audit AuditService) PageService {
	return &pageService{pageRepo: pageRepo, revisionRepo: revisionRepo, audit: audit}
}

func (s *pageService) Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Page, error) {
	if err := authz.RequirePermission(viewer, authz.PermPageEdit); err != nil {
		return nil, err
	}

	page := &domain.Page{
		ContentFields: domain.ContentFields{
			ID:       uuid.New(),
			AuthorID: viewer.UserID,
			Title:    req.Title,
			Status:   domain.StatusDraft,
		},
	}
	if len(req.Content) > 0 {
		page.Content = datatypes.JSON(req.Content)
	}

	base, err := resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}
	err = createWithSlugRetry(base,
		func(v string) { page.Slug = v },
		func() error { return s.pageRepo.Create(page) },
	)
	if err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, domain.EntityPage, &page.ID, map[string]interface{}{"slug": page.Slug})
	return page, nil
}

func (s *pageService) GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error) {
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, page)
}

func (s *pageService) GetBySlug(viewer *authz.Viewer, slug string) (*domain.Page, error) {
	page, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, page)
}

func (s *pageService) guardRead(viewer *authz.Viewer, page *domain.Page) (*domain.Page, error) {
	if page.Status == domain.StatusPublished {
		return page, nil
	}
	if err := authz.RequireOwnershipOrPermission(viewer, page.AuthorID, authz.PermPageEdit); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *pageService) Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Page, error) {
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, page.AuthorID, authz.PermPageEdit); err != nil {
		return nil, err
	}

	revision := &domain.Revision{
		ID:         uuid.New(),
		EntityType: domain.EntityPage,
		EntityID:   page.ID,
		AuthorID:   viewer.UserID,
		Message:    req.Message,
		Snapshot:   page.Snapshot(),
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Slug != nil {
		newSlug, err := resolveSlug(req.Slug, page.Title)
		if err != nil {
			return nil, err
		}
		page.Slug = newSlug
	}
	if len(req.Content) > 0 {
		page.Content = datatypes.JSON(req.Content)
	}

	if err := s.pageRepo.UpdateWithRevision(page, revision); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionUpdate, domain.EntityPage, &page.ID, nil)
	return page, nil
}

func (s *pageService) Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error) {
	return s.transition(viewer, id, authz.PermPagePublish, ActionPublish, workflow.Publish)
}

func (s *pageService) Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error) {
	return s.transition(viewer, id, authz.PermPagePublish, ActionUnpublish, workflow.Unpublish)
}

func (s *pageService) Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error) {
	return s.transition(viewer, id, authz.PermPagePublish, ActionArchive, workflow.Archive)
}

func (s *pageService) transition(viewer *authz.Viewer, id uuid.UUID, perm, action string, move func(*domain.ContentFields) error) (*domain.Page, error) {
	// Permission first: unauthorized callers learn nothing about which IDs exist.
	if err := authz.RequirePermission(viewer, perm); err != nil {
		return nil, err
	}
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := move(&page.ContentFields); err != nil {
		return nil, err
	}
	if err := s.pageRepo.Save(page); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, action, domain.EntityPage, &page.ID, map[string]interface{}{"status": page.Status})
	return page, nil
}

func (s *pageService) SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error) {
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, page.AuthorID, authz.PermPageEdit); err != nil {
		return nil, err
	}
	if err := workflow.SubmitForReview(&page.ContentFields); err != nil {
		return nil, err
	}
	if err := s.pageRepo.Save(page); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionReview, domain.EntityPage, &page.ID, nil)
	return page, nil
}

func (s *pageService) Delete(viewer *authz.Viewer, id uuid.UUID) error {
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, page.AuthorID, authz.PermPageEdit); err != nil {
		return err
	}
	if err := s.pageRepo.SoftDelete(page); err != nil {
		return err
	}

	s.audit.Record(&viewer.UserID, ActionDelete, domain.EntityPage, &page.ID, nil)
	return nil
}

func (s *pageService) List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Page], error) {
	if status != "" && !status.Valid() {
		return nil, common.ErrInvalidInput
	}
	if status != domain.StatusPublished {
		if err := authz.RequirePermission(viewer, authz.PermPageEdit); err != nil {
			return nil, err
		}
	}

	cursor, err := decodeAfter(after)
	if err != nil {
		return nil, err
	}
	size := pagination.ClampPageSize(pageSize)

	pages, err := s.pageRepo.ListAfter(cursor, size+1, status)
	if err != nil {
		return nil, err
	}

	return pagination.BuildConnection(pages, size, func(p *domain.Page) string {
		return pagination.EncodeTime(p.CreatedAt, p.ID.String())
	}), nil
}

func (s *pageService) ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error) {
	if _, err := s.pageRepo.FindByID(id); err != nil {
		return nil, err
	}
	revisions, err := s.revisionRepo.ListByEntity(domain.EntityPage, id)
	if err != nil {
		return nil, err
	}
	total, err := s.revisionRepo.CountByEntity(domain.EntityPage, id)
	if err != nil {
		return nil, err
	}
	return revisionResponses(revisions, total), nil
}
