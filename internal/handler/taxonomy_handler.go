package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// TaxonomyHandler handles HTTP requests for tags and categories
type TaxonomyHandler struct {
	service service.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(service service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// ListTags godoc
// @Summary      List all tags
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.Response{data=[]domain.Tag}
// @Router       /tags [get]
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags()
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, tags)
}

// CreateTag godoc
// @Summary      Create a tag
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateTaxonomyRequest  true  "Tag payload"
// @Success      201  {object}  common.Response{data=domain.Tag}
// @Failure      409  {object}  common.Response
// @Router       /tags [post]
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req domain.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	tag, err := h.service.CreateTag(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, tag)
}

// GetTag godoc
// @Summary      Get a tag by slug
// @Tags         taxonomy
// @Produce      json
// @Param        slug  path  string  true  "Tag slug"
// @Success      200  {object}  common.Response{data=domain.Tag}
// @Failure      404  {object}  common.Response
// @Router       /tags/{slug} [get]
func (h *TaxonomyHandler) GetTag(c *gin.Context) {
	tag, err := h.service.GetTag(c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, tag)
}

// ListCategories godoc
// @Summary      List root categories with their children
// @Tags         taxonomy
// @Produce      json
// @Success      200  {object}  common.Response{data=[]domain.Category}
// @Router       /categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories()
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, categories)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateTaxonomyRequest  true  "Category payload"
// @Success      201  {object}  common.Response{data=domain.Category}
// @Failure      409  {object}  common.Response
// @Router       /categories [post]
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req domain.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	category, err := h.service.CreateCategory(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, category)
}

// GetCategory godoc
// @Summary      Get a category by slug
// @Tags         taxonomy
// @Produce      json
// @Param        slug  path  string  true  "Category slug"
// @Success      200  {object}  common.Response{data=domain.Category}
// @Failure      404  {object}  common.Response
// @Router       /categories/{slug} [get]
func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetCategory(c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, category)
}
