package service

import (
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/pkg/slug"
)

// TaxonomyService tags and hierarchical categories
type TaxonomyService interface {
	CreateTag(viewer *authz.Viewer, req *domain.CreateTaxonomyRequest) (*domain.Tag, error)
	GetTag(slug string) (*domain.Tag, error)
	ListTags() ([]*domain.Tag, error)
	CreateCategory(viewer *authz.Viewer, req *domain.CreateTaxonomyRequest) (*domain.Category, error)
	GetCategory(slug string) (*domain.Category, error)
	ListCategories() ([]*domain.Category, error)
}

type taxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
	audit        AuditService
}

// NewTaxonomyService creates a new TaxonomyService
func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository, audit AuditService) TaxonomyService {
	return &taxonomyService{taxonomyRepo: taxonomyRepo, audit: audit}
}

func (s *taxonomyService) CreateTag(viewer *authz.Viewer, req *domain.CreateTaxonomyRequest) (*domain.Tag, error) {
	if err := authz.RequirePermission(viewer, authz.PermTaxonomyManage); err != nil {
		return nil, err
	}

	tagSlug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	tag := &domain.Tag{
		ID:   uuid.New(),
		Slug: tagSlug,
		Name: req.Name,
	}
	if err := s.taxonomyRepo.CreateTag(tag); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, "tag", &tag.ID, map[string]interface{}{"slug": tag.Slug})
	return tag, nil
}

func (s *taxonomyService) GetTag(tagSlug string) (*domain.Tag, error) {
	return s.taxonomyRepo.FindTagBySlug(slug.Make(tagSlug))
}

func (s *taxonomyService) ListTags() ([]*domain.Tag, error) {
	return s.taxonomyRepo.ListTags()
}

func (s *taxonomyService) CreateCategory(viewer *authz.Viewer, req *domain.CreateTaxonomyRequest) (*domain.Category, error) {
	if err := authz.RequirePermission(viewer, authz.PermTaxonomyManage); err != nil {
		return nil, err
	}

	categorySlug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{
		ID:       uuid.New(),
		Slug:     categorySlug,
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := s.taxonomyRepo.CreateCategory(category); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, "category", &category.ID, map[string]interface{}{"slug": category.Slug})
	return category, nil
}

func (s *taxonomyService) GetCategory(categorySlug string) (*domain.Category, error) {
	return s.taxonomyRepo.FindCategoryBySlug(slug.Make(categorySlug))
}

func (s *taxonomyService) ListCategories() ([]*domain.Category, error) {
	return s.taxonomyRepo.ListCategories()
}
