package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
	"github.com/caddystats/content-backend/internal/repository"
	"github.com/caddystats/content-backend/pkg/storage"
)

// presignedURLTTL how long direct-download links stay valid
const presignedURLTTL = 15 * time.Minute

// MediaService uploads files to object storage and tracks their metadata
type MediaService interface {
	Upload(ctx context.Context, viewer *authz.Viewer, fileName, contentType string, size int64, body io.Reader) (*domain.MediaAsset, error)
	Get(id uuid.UUID) (*domain.MediaAsset, error)
	Delete(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) error
	List(viewer *authz.Viewer, after *string, pageSize int) (*pagination.Connection[*domain.MediaAsset], error)
	Attach(viewer *authz.Viewer, assetID uuid.UUID, ownerType string, ownerID uuid.UUID, note *string) (*domain.AssetLink, error)
	ListAttachments(ownerType string, ownerID uuid.UUID) ([]*domain.AssetLink, error)
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type mediaService struct {
	mediaRepo    repository.MediaRepository
	store        *storage.S3Client
	audit        AuditService
	maxSizeBytes int64
	allowedMimes map[string]struct{}
}

// NewMediaService creates a new MediaService
func NewMediaService(mediaRepo repository.MediaRepository, store *storage.S3Client, audit AuditService, maxSizeMB int, allowedMimes []string) MediaService {
	mimes := make(map[string]struct{}, len(allowedMimes))
	for _, m := range allowedMimes {
		mimes[m] = struct{}{}
	}
	return &mediaService{
		mediaRepo:    mediaRepo,
		store:        store,
		audit:        audit,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		allowedMimes: mimes,
	}
}

func (s *mediaService) Upload(ctx context.Context, viewer *authz.Viewer, fileName, contentType string, size int64, body io.Reader) (*domain.MediaAsset, error) {
	if err := authz.RequirePermission(viewer, authz.PermMediaUpload); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, common.ErrStorageUnavailable
	}
	if size > s.maxSizeBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrInvalidInput, s.maxSizeBytes)
	}
	if len(s.allowedMimes) > 0 {
		if _, ok := s.allowedMimes[contentType]; !ok {
			return nil, fmt.Errorf("%w: content type %q not allowed", common.ErrInvalidInput, contentType)
		}
	}

	// Buffer the body so the checksum covers exactly what gets stored.
	data, err := io.ReadAll(io.LimitReader(body, s.maxSizeBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrInvalidInput, s.maxSizeBytes)
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	key := storage.GenerateKey("media", fileName)
	result, err := s.store.Upload(ctx, key, bytes.NewReader(data), contentType, int64(len(data)))
	if err != nil {
		return nil, err
	}

	asset := &domain.MediaAsset{
		ID:             uuid.New(),
		UploaderID:     &viewer.UserID,
		FileName:       fileName,
		ContentType:    contentType,
		ByteSize:       int64(len(data)),
		StorageKey:     result.Key,
		ChecksumSHA256: &checksum,
	}
	if result.CDNURL != "" {
		asset.PublicURL = &result.CDNURL
	} else {
		asset.PublicURL = &result.URL
	}
	if err := s.mediaRepo.Create(asset); err != nil {
		// Orphaned object; remove it so storage does not drift from metadata.
		_ = s.store.Delete(ctx, result.Key)
		return nil, err
	}

	s.audit.Record(&viewer.UserID, ActionUpload, "media", &asset.ID, map[string]interface{}{"file_name": fileName, "byte_size": asset.ByteSize})
	return asset, nil
}

func (s *mediaService) Get(id uuid.UUID) (*domain.MediaAsset, error) {
	return s.mediaRepo.FindByID(id)
}

func (s *mediaService) Delete(ctx context.Context, viewer *authz.Viewer, id uuid.UUID) error {
	asset, err := s.mediaRepo.FindByID(id)
	if err != nil {
		return err
	}
	ownerID := viewer.UserID
	if asset.UploaderID != nil {
		ownerID = *asset.UploaderID
	}
	if err := authz.RequireOwnershipOrPermission(viewer, ownerID, authz.PermMediaUpload); err != nil {
		return err
	}

	if err := s.mediaRepo.SoftDelete(asset); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, asset.StorageKey); err != nil {
		// Metadata row already marked; the object becomes unreachable either way.
		return err
	}

	s.audit.Record(&viewer.UserID, ActionDelete, "media", &asset.ID, nil)
	return nil
}

func (s *mediaService) List(viewer *authz.Viewer, after *string, pageSize int) (*pagination.Connection[*domain.MediaAsset], error) {
	if err := authz.RequirePermission(viewer, authz.PermMediaUpload); err != nil {
		return nil, err
	}

	cursor, err := decodeAfter(after)
	if err != nil {
		return nil, err
	}
	size := pagination.ClampPageSize(pageSize)

	assets, err := s.mediaRepo.ListAfter(cursor, size+1)
	if err != nil {
		return nil, err
	}

	return pagination.BuildConnection(assets, size, func(a *domain.MediaAsset) string {
		return pagination.EncodeTime(a.CreatedAt, a.ID.String())
	}), nil
}

func (s *mediaService) Attach(viewer *authz.Viewer, assetID uuid.UUID, ownerType string, ownerID uuid.UUID, note *string) (*domain.AssetLink, error) {
	if err := authz.RequirePermission(viewer, authz.PermMediaUpload); err != nil {
		return nil, err
	}
	if _, err := s.mediaRepo.FindByID(assetID); err != nil {
		return nil, err
	}

	link := &domain.AssetLink{
		ID:        uuid.New(),
		AssetID:   assetID,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Note:      note,
	}
	if err := s.mediaRepo.Link(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *mediaService) ListAttachments(ownerType string, ownerID uuid.UUID) ([]*domain.AssetLink, error) {
	return s.mediaRepo.ListLinks(ownerType, ownerID)
}

func (s *mediaService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	asset, err := s.mediaRepo.FindByID(id)
	if err != nil {
		return "", err
	}
	if s.store == nil {
		return "", common.ErrStorageUnavailable
	}
	return s.store.GetPresignedURL(ctx, asset.StorageKey, presignedURLTTL)
}
