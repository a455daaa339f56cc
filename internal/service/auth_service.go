package service

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/repository"
	pkgjwt "github.com/caddystats/content-backend/pkg/jwt"
	pkglogger "github.com/caddystats/content-backend/pkg/logger"
)

// DefaultSignupRole is assigned to every new account.
const DefaultSignupRole = "contributor"

// AuthService account registration, login and token refresh
type AuthService interface {
	Signup(req *domain.SignupRequest) (*domain.AuthResponse, error)
	Login(req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(req *domain.RefreshRequest) (*domain.AuthResponse, error)
	// BuildViewer loads the user's current role and permission assignments
	// and flattens them. Called once per authenticated request.
	BuildViewer(userID uuid.UUID) (*authz.Viewer, error)
	Me(userID uuid.UUID) (*domain.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *pkgjwt.Manager
	audit    AuditService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, tokens *pkgjwt.Manager, audit AuditService) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, audit: audit}
}

func (s *authService) Signup(req *domain.SignupRequest) (*domain.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.AssignRole(user.ID, DefaultSignupRole); err != nil {
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("user_id", user.ID.String()).
			Msg("default role assignment failed")
	}

	s.audit.Record(&user.ID, ActionSignup, "user", &user.ID, nil)
	return s.issueTokens(user)
}

func (s *authService) Login(req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	s.audit.Record(&user.ID, ActionLogin, "user", &user.ID, nil)
	return s.issueTokens(user)
}

func (s *authService) Refresh(req *domain.RefreshRequest) (*domain.AuthResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, pkgjwt.ErrExpiredToken) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *authService) BuildViewer(userID uuid.UUID) (*authz.Viewer, error) {
	user, err := s.userRepo.FindWithPermissions(userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrUnauthorized
	}
	return authz.NewViewer(user), nil
}

func (s *authService) Me(userID uuid.UUID) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindWithPermissions(userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *authService) issueTokens(user *domain.User) (*domain.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID.String())
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}
