package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
)

// BlockService ordered content fragments attached to posts, pages and
// templates. Mutations are guarded by the owning entity's edit rules.
type BlockService interface {
	Add(viewer *authz.Viewer, req *domain.AddBlockRequest) (*domain.Block, error)
	ListByOwner(ownerType string, ownerID uuid.UUID) ([]*domain.Block, error)
	Reorder(viewer *authz.Viewer, req *domain.ReorderBlocksRequest) ([]*domain.Block, error)
	Remove(viewer *authz.Viewer, id uuid.UUID) error
}

type blockService struct {
	blockRepo    repository.BlockRepository
	postRepo     repository.PostRepository
	pageRepo     repository.PageRepository
	templateRepo repository.TemplateRepository
}

// NewBlockService creates a new BlockService
func NewBlockService(
	blockRepo repository.BlockRepository,
	postRepo repository.PostRepository,
	pageRepo repository.PageRepository,
	templateRepo repository.TemplateRepository,
) BlockService {
	return &blockService{
		blockRepo:    blockRepo,
		postRepo:     postRepo,
		pageRepo:     pageRepo,
		templateRepo: templateRepo,
	}
}

// guardOwner resolves the owning entity and applies its edit rule.
func (s *blockService) guardOwner(viewer *authz.Viewer, ownerType string, ownerID uuid.UUID) error {
	switch ownerType {
	case domain.EntityPost:
		post, err := s.postRepo.FindByID(ownerID)
		if err != nil {
			return err
		}
		return authz.RequireOwnershipOrPermission(viewer, post.AuthorID, authz.PermPostPublish)
	case domain.EntityPage:
		page, err := s.pageRepo.FindByID(ownerID)
		if err != nil {
			return err
		}
		return authz.RequireOwnershipOrPermission(viewer, page.AuthorID, authz.PermPageEdit)
	case domain.EntityTemplate:
		tpl, err := s.templateRepo.FindByID(ownerID)
		if err != nil {
			return err
		}
		return authz.RequireOwnershipOrPermission(viewer, tpl.AuthorID, authz.PermTemplateEdit)
	default:
		return fmt.Errorf("%w: unknown owner type %q", common.ErrInvalidInput, ownerType)
	}
}

func (s *blockService) Add(viewer *authz.Viewer, req *domain.AddBlockRequest) (*domain.Block, error) {
	if err := s.guardOwner(viewer, req.OwnerType, req.OwnerID); err != nil {
		return nil, err
	}

	existing, err := s.blockRepo.ListByOwner(req.OwnerType, req.OwnerID)
	if err != nil {
		return nil, err
	}

	block := &domain.Block{
		ID:        uuid.New(),
		OwnerType: req.OwnerType,
		OwnerID:   req.OwnerID,
		SortOrder: len(existing),
		BlockType: req.BlockType,
	}
	if len(req.Data) > 0 {
		block.Data = datatypes.JSON(req.Data)
	}
	if err := s.blockRepo.Create(block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *blockService) ListByOwner(ownerType string, ownerID uuid.UUID) ([]*domain.Block, error) {
	return s.blockRepo.ListByOwner(ownerType, ownerID)
}

func (s *blockService) Reorder(viewer *authz.Viewer, req *domain.ReorderBlocksRequest) ([]*domain.Block, error) {
	if err := s.guardOwner(viewer, req.OwnerType, req.OwnerID); err != nil {
		return nil, err
	}
	if err := s.blockRepo.Reorder(req.OwnerType, req.OwnerID, req.OrderedIDs); err != nil {
		return nil, err
	}
	return s.blockRepo.ListByOwner(req.OwnerType, req.OwnerID)
}

func (s *blockService) Remove(viewer *authz.Viewer, id uuid.UUID) error {
	block, err := s.blockRepo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.guardOwner(viewer, block.OwnerType, block.OwnerID); err != nil {
		return err
	}
	return s.blockRepo.Delete(id)
}
