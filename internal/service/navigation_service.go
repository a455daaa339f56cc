package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/pkg/cache"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// NavigationService site navigation menus. Reads go through Redis since
// menus change rarely and render on every page.
type NavigationService interface {
	CreateMenu(viewer *authz.Viewer, name string) (*domain.NavMenu, error)
	GetMenu(ctx context.Context, slug string) (*domain.NavMenu, error)
	ListMenus() ([]*domain.NavMenu, error)
	AddItem(ctx context.Context, viewer *authz.Viewer, menuSlug string, req *domain.AddNavItemRequest) (*domain.NavItem, error)
	RemoveItem(ctx context.Context, viewer *authz.Viewer, menuSlug string, itemID uuid.UUID) error
	ReorderItems(ctx context.Context, viewer *authz.Viewer, menuSlug string, orderedIDs []uuid.UUID) error
}

type navigationService struct {
	navRepo repository.NavigationRepository
	cache   cache.Service
	audit   AuditService
}

// NewNavigationService creates a new NavigationService
func NewNavigationService(navRepo repository.NavigationRepository, cacheSvc cache.Service, audit AuditService) NavigationService {
	return &navigationService{navRepo: navRepo, cache: cacheSvc, audit: audit}
}

func (s *navigationService) CreateMenu(viewer *authz.Viewer, name string) (*domain.NavMenu, error) {
	if err := authz.RequirePermission(viewer, authz.PermNavManage); err != nil {
		return nil, err
	}

	menuSlug, err := resolveSlug(nil, name)
	if err != nil {
		return nil, err
	}
	menu := &domain.NavMenu{
		ID:   uuid.New(),
		Slug: menuSlug,
		Name: name,
	}
	if err := s.navRepo.CreateMenu(menu); err != nil {
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionCreate, "nav_menu", &menu.ID, map[string]interface{}{"slug": menu.Slug})
	return menu, nil
}

func (s *navigationService) GetMenu(ctx context.Context, menuSlug string) (*domain.NavMenu, error) {
	var cached domain.NavMenu
	if err := s.cache.Get(ctx, cache.PrefixNav+menuSlug, &cached); err == nil {
		return &cached, nil
	}

	menu, err := s.navRepo.FindMenuBySlug(menuSlug)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.PrefixNav+menuSlug, menu, cache.TTLNav); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("menu", menuSlug).Msg("nav cache write failed")
	}
	return menu, nil
}

func (s *navigationService) ListMenus() ([]*domain.NavMenu, error) {
	return s.navRepo.ListMenus()
}

func (s *navigationService) AddItem(ctx context.Context, viewer *authz.Viewer, menuSlug string, req *domain.AddNavItemRequest) (*domain.NavItem, error) {
	if err := authz.RequirePermission(viewer, authz.PermNavManage); err != nil {
		return nil, err
	}
	menu, err := s.navRepo.FindMenuBySlug(menuSlug)
	if err != nil {
		return nil, err
	}

	item := &domain.NavItem{
		ID:        uuid.New(),
		MenuID:    menu.ID,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
		Label:     req.Label,
		Href:      req.Href,
		PageID:    req.PageID,
	}
	if err := s.navRepo.AddItem(item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, menuSlug)
	return item, nil
}

func (s *navigationService) RemoveItem(ctx context.Context, viewer *authz.Viewer, menuSlug string, itemID uuid.UUID) error {
	if err := authz.RequirePermission(viewer, authz.PermNavManage); err != nil {
		return err
	}
	if err := s.navRepo.DeleteItem(itemID); err != nil {
		return err
	}
	s.invalidate(ctx, menuSlug)
	return nil
}

func (s *navigationService) ReorderItems(ctx context.Context, viewer *authz.Viewer, menuSlug string, orderedIDs []uuid.UUID) error {
	if err := authz.RequirePermission(viewer, authz.PermNavManage); err != nil {
		return err
	}
	menu, err := s.navRepo.FindMenuBySlug(menuSlug)
	if err != nil {
		return err
	}
	if err := s.navRepo.ReorderItems(menu.ID, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx, menuSlug)
	return nil
}

func (s *navigationService) invalidate(ctx context.Context, menuSlug string) {
	if err := s.cache.InvalidateNav(ctx, menuSlug); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("menu", menuSlug).Msg("nav cache invalidation failed")
	}
}
