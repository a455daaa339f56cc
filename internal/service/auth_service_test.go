package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	pkgjwt "github.com/caddystats/content-backend/pkg/jwt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id uuid.UUID) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindWithPermissions(id uuid.UUID) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AssignRole(userID uuid.UUID, roleKey string) error {
	args := m.Called(userID, roleKey)
	return args.Error(0)
}

func newAuthServiceForTest(userRepo *MockUserRepository) AuthService {
	tokens := pkgjwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(userRepo, tokens, noopAudit{})
}

func TestSignup_HashesPasswordAndAssignsDefaultRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	userRepo.On("Create", mock.AnythingOfType("*domain.User")).Return(nil)
	userRepo.On("AssignRole", mock.AnythingOfType("uuid.UUID"), DefaultSignupRole).Return(nil)

	resp, err := svc.Signup(&domain.SignupRequest{Email: "a@b.com", Password: "hunter2hunter2"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "a@b.com", resp.User.Email)

	created := userRepo.Calls[0].Arguments.Get(0).(*domain.User)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2hunter2")))
	userRepo.AssertCalled(t, "AssignRole", created.ID, DefaultSignupRole)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	userRepo.On("Create", mock.AnythingOfType("*domain.User")).Return(common.ErrUserAlreadyExists)

	_, err := svc.Signup(&domain.SignupRequest{Email: "a@b.com", Password: "hunter2hunter2"})

	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &domain.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: string(hash), IsActive: true}
	userRepo.On("FindByEmail", "a@b.com").Return(user, nil)

	_, err := svc.Login(&domain.LoginRequest{Email: "a@b.com", Password: "battery-staple"})

	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	userRepo.On("FindByEmail", "nobody@b.com").Return(nil, common.ErrNotFound)

	_, err := svc.Login(&domain.LoginRequest{Email: "nobody@b.com", Password: "whatever"})

	// Unknown account and bad password are indistinguishable to the caller.
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_Succeeds(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &domain.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: string(hash), IsActive: true}
	userRepo.On("FindByEmail", "a@b.com").Return(user, nil)

	resp, err := svc.Login(&domain.LoginRequest{Email: "a@b.com", Password: "correct-horse"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	tokens := pkgjwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	access, err := tokens.GenerateAccessToken(uuid.New().String())
	assert.NoError(t, err)

	_, err = svc.Refresh(&domain.RefreshRequest{RefreshToken: access})

	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	user := &domain.User{ID: uuid.New(), Email: "a@b.com", IsActive: true}
	userRepo.On("FindByID", user.ID).Return(user, nil)

	tokens := pkgjwt.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	refresh, err := tokens.GenerateRefreshToken(user.ID.String())
	assert.NoError(t, err)

	resp, err := svc.Refresh(&domain.RefreshRequest{RefreshToken: refresh})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestBuildViewer_FlattensRolePermissions(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	user := &domain.User{
		ID:       uuid.New(),
		IsActive: true,
		Roles: []*domain.Role{
			{Key: "editor", Permissions: []*domain.Permission{{Key: "post:create"}, {Key: "post:publish"}}},
		},
	}
	userRepo.On("FindWithPermissions", user.ID).Return(user, nil)

	viewer, err := svc.BuildViewer(user.ID)

	assert.NoError(t, err)
	assert.True(t, viewer.HasPermission("post:publish"))
	assert.False(t, viewer.HasPermission("commerce:manage"))
}

func TestBuildViewer_DeactivatedUserUnauthorized(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthServiceForTest(userRepo)

	user := &domain.User{ID: uuid.New(), IsActive: false}
	userRepo.On("FindWithPermissions", user.ID).Return(user, nil)

	_, err := svc.BuildViewer(user.ID)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
