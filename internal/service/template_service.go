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

// TemplateService template lifecycle. Template editing is always
// permission-gated; there is no ownership shortcut for creation.
type TemplateService interface {
	Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Template, error)
	GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error)
	GetBySlug(viewer *authz.Viewer, slug string) (*domain.Template, error)
	Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Template, error)
	Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error)
	Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error)
	Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error)
	SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error)
	Delete(viewer *authz.Viewer, id uuid.UUID) error
	List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Template], error)
	ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error)
}

type templateService struct {
	templateRepo repository.TemplateRepository
	revisionRepo repository.RevisionRepository
	audit        AuditService
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo repository.TemplateRepository, revisionRepo repository.RevisionRepository, audit AuditService) TemplateService {
	return &templateService{templateRepo: templateRepo, revisionRepo: revisionRepo, audit: audit}
}

func (s *templateService) Create(viewer *authz.Viewer, req *domain.CreateContentRequest) (*domain.Template, error) {
	if err := authz.RequirePermission(viewer, authz.PermTemplateEdit); err != nil {
		return nil, err
	}

	tpl := &domain.Template{
		ContentFields: domain.ContentFields{
			ID:       uuid.New(),
			AuthorID: viewer.UserID,
			Title:    req.Title,
			Status:   domain.StatusDraft,
		},
		Description: req.Description,
	}
	if len(req.Content) > 0 {
		tpl.Content = datatypes.JSON(req.Content)
	}

	base, err := resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}
	err = createWithSlugRetry(base,
		func(v string) { tpl.Slug = v },
		func() error { return s.templateRepo.Create(tpl) },
	)
	if err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, domain.EntityTemplate, &tpl.ID, map[string]interface{}{"slug": tpl.Slug})
	return tpl, nil
}

func (s *templateService) GetByID(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, tpl)
}

func (s *templateService) GetBySlug(viewer *authz.Viewer, slug string) (*domain.Template, error) {
	tpl, err := s.templateRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.guardRead(viewer, tpl)
}

func (s *templateService) guardRead(viewer *authz.Viewer, tpl *domain.Template) (*domain.Template, error) {
	if tpl.Status == domain.StatusPublished {
		return tpl, nil
	}
	if err := authz.RequireOwnershipOrPermission(viewer, tpl.AuthorID, authz.PermTemplateEdit); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) Update(viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateContentRequest) (*domain.Template, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, tpl.AuthorID, authz.PermTemplateEdit); err != nil {
		return nil, err
	}

	revision := &domain.Revision{
		ID:         uuid.New(),
		EntityType: domain.EntityTemplate,
		EntityID:   tpl.ID,
		AuthorID:   viewer.UserID,
		Message:    req.Message,
		Snapshot:   tpl.Snapshot(),
	}

	if req.Title != nil {
		tpl.Title = *req.Title
	}
	if req.Slug != nil {
		newSlug, err := resolveSlug(req.Slug, tpl.Title)
		if err != nil {
			return nil, err
		}
		tpl.Slug = newSlug
	}
	if len(req.Content) > 0 {
		tpl.Content = datatypes.JSON(req.Content)
	}
	if req.Description != nil {
		tpl.Description = req.Description
	}

	if err := s.templateRepo.UpdateWithRevision(tpl, revision); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionUpdate, domain.EntityTemplate, &tpl.ID, nil)
	return tpl, nil
}

func (s *templateService) Publish(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error) {
	return s.transition(viewer, id, authz.PermTemplatePublish, ActionPublish, workflow.Publish)
}

func (s *templateService) Unpublish(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error) {
	return s.transition(viewer, id, authz.PermTemplatePublish, ActionUnpublish, workflow.Unpublish)
}

func (s *templateService) Archive(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error) {
	return s.transition(viewer, id, authz.PermTemplatePublish, ActionArchive, workflow.Archive)
}

func (s *templateService) transition(viewer *authz.Viewer, id uuid.UUID, perm, action string, move func(*domain.ContentFields) error) (*domain.Template, error) {
	// Permission first: unauthorized callers learn nothing about which IDs exist.
	if err := authz.RequirePermission(viewer, perm); err != nil {
		return nil, err
	}
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := move(&tpl.ContentFields); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(tpl); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, action, domain.EntityTemplate, &tpl.ID, map[string]interface{}{"status": tpl.Status})
	return tpl, nil
}

func (s *templateService) SubmitForReview(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error) {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, tpl.AuthorID, authz.PermTemplateEdit); err != nil {
		return nil, err
	}
	if err := workflow.SubmitForReview(&tpl.ContentFields); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(tpl); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionReview, domain.EntityTemplate, &tpl.ID, nil)
	return tpl, nil
}

func (s *templateService) Delete(viewer *authz.Viewer, id uuid.UUID) error {
	tpl, err := s.templateRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnershipOrPermission(viewer, tpl.AuthorID, authz.PermTemplateEdit); err != nil {
		return err
	}
	if err := s.templateRepo.SoftDelete(tpl); err != nil {
		return err
	}

	s.audit.Record(&viewer.UserID, ActionDelete, domain.EntityTemplate, &tpl.ID, nil)
	return nil
}

func (s *templateService) List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Template], error) {
	if status != "" && !status.Valid() {
		return nil, common.ErrInvalidInput
	}
	if status != domain.StatusPublished {
		if err := authz.RequirePermission(viewer, authz.PermTemplateEdit); err != nil {
			return nil, err
		}
	}

	cursor, err := decodeAfter(after)
	if err != nil {
		return nil, err
	}
	size := pagination.ClampPageSize(pageSize)

	tpls, err := s.templateRepo.ListAfter(cursor, size+1, status)
	if err != nil {
		return nil, err
	}

	return pagination.BuildConnection(tpls, size, func(t *domain.Template) string {
		return pagination.EncodeTime(t.CreatedAt, t.ID.String())
	}), nil
}

func (s *templateService) ListRevisions(id uuid.UUID) ([]*domain.RevisionResponse, error) {
	if _, err := s.templateRepo.FindByID(id); err != nil {
		return nil, err
	}
	revisions, err := s.revisionRepo.ListByEntity(domain.EntityTemplate, id)
	if err != nil {
		return nil, err
	}
	total, err := s.revisionRepo.CountByEntity(domain.EntityTemplate, id)
	if err != nil {
		return nil, err
	}
	return revisionResponses(revisions, total), nil
}
