package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// PurchaseService orders and the licenses they grant
type PurchaseService interface {
	Purchase(viewer *authz.Viewer, req *domain.CreatePurchaseRequest) (*domain.Purchase, error)
	ListPurchases(viewer *authz.Viewer) ([]*domain.Purchase, error)
	ListLicenses(viewer *authz.Viewer) ([]*domain.License, error)
	VerifyLicense(req *domain.VerifyLicenseRequest) (*domain.VerifyLicenseResponse, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	licenseRepo  repository.LicenseRepository
	productRepo  repository.ProductRepository
	audit        AuditService
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	licenseRepo repository.LicenseRepository,
	productRepo repository.ProductRepository,
	audit AuditService,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		licenseRepo:  licenseRepo,
		productRepo:  productRepo,
		audit:        audit,
	}
}

func (s *purchaseService) Purchase(viewer *authz.Viewer, req *domain.CreatePurchaseRequest) (*domain.Purchase, error) {
	if err := authz.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.StatusPublished {
		return nil, common.ErrNotFound
	}

	purchase := &domain.Purchase{
		ID:            uuid.New(),
		UserID:        &viewer.UserID,
		ProductID:     product.ID,
		AmountCents:   product.PriceCents,
		Currency:      product.Currency,
		Provider:      req.Provider,
		ProviderTxnID: req.ProviderTxnID,
		Status:        domain.PurchaseCompleted,
	}
	if purchase.Provider == "" {
		purchase.Provider = "manual"
	}

	// Service products are delivered out of band; everything else grants a key.
	if product.ProductType == domain.ProductTypeService {
		if err := s.purchaseRepo.Create(purchase); err != nil {
			return nil, err
		}
	} else {
		license := &domain.License{
			ID:         uuid.New(),
			ProductID:  product.ID,
			UserID:     &viewer.UserID,
			LicenseKey: generateLicenseKey(),
			Status:     domain.LicenseActive,
		}
		if err := s.purchaseRepo.CreateWithLicense(purchase, license); err != nil {
			return nil, err
		}
	}

	s.audit.Record(&viewer.UserID, ActionPurchase, domain.EntityProduct, &product.ID, map[string]interface{}{
		"purchase_id":  purchase.ID,
		"amount_cents": purchase.AmountCents,
	})
	return purchase, nil
}

func (s *purchaseService) ListPurchases(viewer *authz.Viewer) ([]*domain.Purchase, error) {
	if err := authz.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	return s.purchaseRepo.ListByUser(viewer.UserID)
}

func (s *purchaseService) ListLicenses(viewer *authz.Viewer) ([]*domain.License, error) {
	if err := authz.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	return s.licenseRepo.ListByUser(viewer.UserID)
}

// VerifyLicense is unauthenticated so installed templates can phone home.
// An active license past its expiry is flipped to expired on first check.
func (s *purchaseService) VerifyLicense(req *domain.VerifyLicenseRequest) (*domain.VerifyLicenseResponse, error) {
	license, err := s.licenseRepo.FindByKey(req.LicenseKey)
	if err != nil {
		return nil, err
	}

	if license.Status == domain.LicenseActive &&
		license.ExpiresAt != nil && license.ExpiresAt.Before(time.Now().UTC()) {
		license.Status = domain.LicenseExpired
		if err := s.licenseRepo.Save(license); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("license_id", license.ID.String()).Msg("license expiry flip failed")
		}
	}

	return &domain.VerifyLicenseResponse{
		Valid:     license.Status == domain.LicenseActive,
		Status:    license.Status,
		ExpiresAt: license.ExpiresAt,
		Product:   license.Product,
	}, nil
}

// generateLicenseKey returns a key like CS-1A2B-3C4D-5E6F-7A8B.
func generateLicenseKey() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	raw := strings.ToUpper(hex.EncodeToString(buf))
	parts := make([]string, 0, 5)
	parts = append(parts, "CS")
	for i := 0; i < len(raw); i += 4 {
		parts = append(parts, raw[i:i+4])
	}
	return strings.Join(parts, "-")
}
