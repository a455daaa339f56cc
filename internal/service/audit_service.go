package service

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// Audit actions
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
	ActionArchive   = "archive"
	ActionReview    = "submit_review"
	ActionDelete    = "delete"
	ActionUpload    = "upload"
	ActionPurchase  = "purchase"
	ActionSignup    = "signup"
	ActionLogin     = "login"
)

// AuditService records who did what. Writes are best-effort: a failed
// insert degrades to a warning log and never fails the caller.
type AuditService interface {
	Record(userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, metadata map[string]interface{})
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, metadata map[string]interface{}) {
	entry := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(data)
		}
	}

	if err := s.auditRepo.Create(entry); err != nil {
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("audit write failed, continuing")
	}
}
