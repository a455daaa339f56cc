package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/internal/workflow"
	"github.com/caddystats/content-backend/pkg/cache"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// ProductService product catalog management. Products move through the
// same editorial statuses as content; only published products are sold.
type ProductService interface {
	Create(viewer *authz.Viewer, req *domain.CreateProductRequest) (*domain.Product, error)
	GetBySlug(ctx context.Context, viewer *authz.Viewer, slug string) (*domain.Product, error)
	Update(ctx context.Context, viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.Product, error)
	Publish(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) (*domain.Product, error)
	Archive(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) (*domain.Product, error)
	Delete(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) error
	List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Product], error)
}

type productService struct {
	productRepo repository.ProductRepository
	cache       cache.Service
	audit       AuditService
}

// NewProductService creates a new ProductService
func NewProductService(productRepo repository.ProductRepository, cacheSvc cache.Service, audit AuditService) ProductService {
	return &productService{productRepo: productRepo, cache: cacheSvc, audit: audit}
}

func (s *productService) Create(viewer *authz.Viewer, req *domain.CreateProductRequest) (*domain.Product, error) {
	if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ProductType: req.ProductType,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Status:      domain.StatusDraft,
	}
	if product.ProductType == "" {
		product.ProductType = domain.ProductTypeTemplate
	}
	if product.Currency == "" {
		product.Currency = "USD"
	}

	base, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	err = createWithSlugRetry(base,
		func(v string) { product.Slug = v },
		func() error { return s.productRepo.Create(product) },
	)
	if err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, domain.EntityProduct, &product.ID, map[string]interface{}{"slug": product.Slug})
	return product, nil
}

func (s *productService) GetBySlug(ctx context.Context, viewer *authz.Viewer, slug string) (*domain.Product, error) {
	var cached domain.Product
	if err := s.cache.Get(ctx, cache.PrefixProduct+slug, &cached); err == nil {
		return &cached, nil
	}

	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.StatusPublished {
		if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
			return nil, err
		}
		return product, nil
	}

	// Only published products are cached; drafts stay viewer-dependent.
	if err := s.cache.Set(ctx, cache.PrefixProduct+slug, product, cache.TTLProducts); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("slug", slug).Msg("product cache write failed")
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, viewer *authz.Viewer, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.Product, error) {
	if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		product.Currency = *req.Currency
	}

	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.audit.Record(&viewer.UserID, ActionUpdate, domain.EntityProduct, &product.ID, nil)
	return product, nil
}

func (s *productService) Publish(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) (*domain.Product, error) {
	if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanTransition(product.Status, domain.StatusPublished) {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now().UTC()
	product.Status = domain.StatusPublished
	if product.PublishedAt == nil {
		product.PublishedAt = &now
	}
	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.audit.Record(&viewer.UserID, ActionPublish, domain.EntityProduct, &product.ID, nil)
	return product, nil
}

func (s *productService) Archive(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) (*domain.Product, error) {
	if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanTransition(product.Status, domain.StatusArchived) {
		return nil, common.ErrInvalidTransition
	}

	product.Status = domain.StatusArchived
	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.audit.Record(&viewer.UserID, ActionArchive, domain.EntityProduct, &product.ID, nil)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) error {
	if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
		return err
	}
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.SoftDelete(product); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.audit.Record(&viewer.UserID, ActionDelete, domain.EntityProduct, &product.ID, nil)
	return nil
}

func (s *productService) List(viewer *authz.Viewer, after *string, pageSize int, status domain.Status) (*pagination.Connection[*domain.Product], error) {
	if status != "" && !status.Valid() {
		return nil, common.ErrInvalidInput
	}
	if status != domain.StatusPublished {
		if err := authz.RequirePermission(viewer, authz.PermCommerceManage); err != nil {
			return nil, err
		}
	}

	cursor, err := decodeAfter(after)
	if err != nil {
		return nil, err
	}
	size := pagination.ClampPageSize(pageSize)

	products, err := s.productRepo.ListAfter(cursor, size+1, status)
	if err != nil {
		return nil, err
	}

	return pagination.BuildConnection(products, size, func(p *domain.Product) string {
		return pagination.EncodeTime(p.CreatedAt, p.ID.String())
	}), nil
}

func (s *productService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("product cache invalidation failed")
	}
}
