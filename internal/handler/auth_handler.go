package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup godoc
// @Summary      Register a new account
// @Description  Creates a user, assigns the default role and returns a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignupRequest  true  "Registration payload"
// @Success      201  {object}  common.Response{data=domain.AuthResponse}
// @Failure      400  {object}  common.Response
// @Failure      409  {object}  common.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.Signup(&req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, resp)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Credentials"
// @Success      200  {object}  common.Response{data=domain.AuthResponse}
// @Failure      401  {object}  common.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, resp)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RefreshRequest  true  "Refresh token"
// @Success      200  {object}  common.Response{data=domain.AuthResponse}
// @Failure      401  {object}  common.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.service.Refresh(&req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, resp)
}

// Me godoc
// @Summary      Current account profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Response{data=domain.UserResponse}
// @Failure      401  {object}  common.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer == nil {
		common.FailFromError(c, common.ErrUnauthorized)
		return
	}

	resp, err := h.service.Me(viewer.UserID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, resp)
}
