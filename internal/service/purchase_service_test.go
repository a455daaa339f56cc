package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *domain.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(id uuid.UUID) (*domain.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(slug string) (*domain.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Save(product *domain.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(product *domain.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) ListAfter(after *pagination.Cursor, limit int, status domain.Status) ([]*domain.Product, error) {
	args := m.Called(after, limit, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

type MockLicenseRepository struct {
	mock.Mock
}

func (m *MockLicenseRepository) FindByKey(key string) (*domain.License, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.License), args.Error(1)
}

func (m *MockLicenseRepository) FindByID(id uuid.UUID) (*domain.License, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.License), args.Error(1)
}

func (m *MockLicenseRepository) ListByUser(userID uuid.UUID) ([]*domain.License, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.License), args.Error(1)
}

func (m *MockLicenseRepository) Save(license *domain.License) error {
	args := m.Called(license)
	return args.Error(0)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(purchase *domain.Purchase) error {
	args := m.Called(purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) CreateWithLicense(purchase *domain.Purchase, license *domain.License) error {
	args := m.Called(purchase, license)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindByID(id uuid.UUID) (*domain.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListByUser(userID uuid.UUID) ([]*domain.Purchase, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Save(purchase *domain.Purchase) error {
	args := m.Called(purchase)
	return args.Error(0)
}

func newPurchaseServiceForTest(
	purchaseRepo *MockPurchaseRepository,
	licenseRepo *MockLicenseRepository,
	productRepo *MockProductRepository,
) PurchaseService {
	return NewPurchaseService(purchaseRepo, licenseRepo, productRepo, noopAudit{})
}

func publishedProduct(productType string) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:          uuid.New(),
		Slug:        "starter-template",
		Name:        "Starter Template",
		ProductType: productType,
		PriceCents:  4900,
		Currency:    "USD",
		Status:      domain.StatusPublished,
		PublishedAt: &now,
	}
}

func TestPurchase_TemplateProductGrantsLicense(t *testing.T) {
	purchaseRepo := new(MockPurchaseRepository)
	licenseRepo := new(MockLicenseRepository)
	productRepo := new(MockProductRepository)
	svc := newPurchaseServiceForTest(purchaseRepo, licenseRepo, productRepo)

	product := publishedProduct(domain.ProductTypeTemplate)
	buyer := viewerWith()

	productRepo.On("FindByID", product.ID).Return(product, nil)
	purchaseRepo.On("CreateWithLicense", mock.AnythingOfType("*domain.Purchase"), mock.AnythingOfType("*domain.License")).Return(nil)

	purchase, err := svc.Purchase(buyer, &domain.CreatePurchaseRequest{ProductID: product.ID})

	assert.NoError(t, err)
	assert.Equal(t, 4900, purchase.AmountCents)
	assert.Equal(t, domain.PurchaseCompleted, purchase.Status)

	license := purchaseRepo.Calls[0].Arguments.Get(1).(*domain.License)
	assert.Equal(t, product.ID, license.ProductID)
	assert.Equal(t, domain.LicenseActive, license.Status)
	assert.Regexp(t, regexp.MustCompile(`^CS(-[0-9A-F]{4}){4}$`), license.LicenseKey)
	purchaseRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPurchase_ServiceProductSkipsLicense(t *testing.T) {
	purchaseRepo := new(MockPurchaseRepository)
	productRepo := new(MockProductRepository)
	svc := newPurchaseServiceForTest(purchaseRepo, new(MockLicenseRepository), productRepo)

	product := publishedProduct(domain.ProductTypeService)
	productRepo.On("FindByID", product.ID).Return(product, nil)
	purchaseRepo.On("Create", mock.AnythingOfType("*domain.Purchase")).Return(nil)

	_, err := svc.Purchase(viewerWith(), &domain.CreatePurchaseRequest{ProductID: product.ID})

	assert.NoError(t, err)
	purchaseRepo.AssertNotCalled(t, "CreateWithLicense", mock.Anything, mock.Anything)
}

func TestPurchase_UnpublishedProductHidden(t *testing.T) {
	purchaseRepo := new(MockPurchaseRepository)
	productRepo := new(MockProductRepository)
	svc := newPurchaseServiceForTest(purchaseRepo, new(MockLicenseRepository), productRepo)

	product := publishedProduct(domain.ProductTypeTemplate)
	product.Status = domain.StatusDraft
	productRepo.On("FindByID", product.ID).Return(product, nil)

	_, err := svc.Purchase(viewerWith(), &domain.CreatePurchaseRequest{ProductID: product.ID})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPurchase_RequiresAuthentication(t *testing.T) {
	svc := newPurchaseServiceForTest(new(MockPurchaseRepository), new(MockLicenseRepository), new(MockProductRepository))

	_, err := svc.Purchase(nil, &domain.CreatePurchaseRequest{ProductID: uuid.New()})

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestVerifyLicense_ActiveKeyValid(t *testing.T) {
	licenseRepo := new(MockLicenseRepository)
	svc := newPurchaseServiceForTest(new(MockPurchaseRepository), licenseRepo, new(MockProductRepository))

	license := &domain.License{
		ID:         uuid.New(),
		LicenseKey: "CS-AAAA-BBBB-CCCC-DDDD",
		Status:     domain.LicenseActive,
	}
	licenseRepo.On("FindByKey", license.LicenseKey).Return(license, nil)

	resp, err := svc.VerifyLicense(&domain.VerifyLicenseRequest{LicenseKey: license.LicenseKey})

	assert.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, domain.LicenseActive, resp.Status)
}

func TestVerifyLicense_PastExpiryFlipsToExpired(t *testing.T) {
	licenseRepo := new(MockLicenseRepository)
	svc := newPurchaseServiceForTest(new(MockPurchaseRepository), licenseRepo, new(MockProductRepository))

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	license := &domain.License{
		ID:         uuid.New(),
		LicenseKey: "CS-AAAA-BBBB-CCCC-DDDD",
		Status:     domain.LicenseActive,
		ExpiresAt:  &yesterday,
	}
	licenseRepo.On("FindByKey", license.LicenseKey).Return(license, nil)
	licenseRepo.On("Save", license).Return(nil)

	resp, err := svc.VerifyLicense(&domain.VerifyLicenseRequest{LicenseKey: license.LicenseKey})

	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.LicenseExpired, resp.Status)
	licenseRepo.AssertCalled(t, "Save", license)
}

func TestVerifyLicense_RevokedKeyInvalid(t *testing.T) {
	licenseRepo := new(MockLicenseRepository)
	svc := newPurchaseServiceForTest(new(MockPurchaseRepository), licenseRepo, new(MockProductRepository))

	license := &domain.License{
		ID:         uuid.New(),
		LicenseKey: "CS-AAAA-BBBB-CCCC-DDDD",
		Status:     domain.LicenseRevoked,
	}
	licenseRepo.On("FindByKey", license.LicenseKey).Return(license, nil)

	resp, err := svc.VerifyLicense(&domain.VerifyLicenseRequest{LicenseKey: license.LicenseKey})

	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	licenseRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestVerifyLicense_UnknownKey(t *testing.T) {
	licenseRepo := new(MockLicenseRepository)
	svc := newPurchaseServiceForTest(new(MockPurchaseRepository), licenseRepo, new(MockProductRepository))

	licenseRepo.On("FindByKey", "CS-0000-0000-0000-0000").Return(nil, common.ErrNotFound)

	_, err := svc.VerifyLicense(&domain.VerifyLicenseRequest{LicenseKey: "CS-0000-0000-0000-0000"})

	assert.ErrorIs(t, err, common.ErrNotFound)
}
