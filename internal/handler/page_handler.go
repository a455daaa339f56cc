package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/authz"
	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// PageHandler handles HTTP requests for CMS pages
type PageHandler struct {
	service service.PageService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(service service.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// List godoc
// @Summary      List pages
// @Tags         pages
// @Produce      json
// @Param        after      query  string  false  "Opaque cursor from a previous page"
// @Param        page_size  query  int     false  "Rows per page (max 100)"  default(20)
// @Param        status     query  string  false  "Status filter"  default(published)
// @Success      200  {object}  common.Response{data=[]domain.Page}
// @Router       /pages [get]
func (h *PageHandler) List(c *gin.Context) {
	after, pageSize, status := listQuery(c)

	conn, err := h.service.List(middleware.GetViewer(c), after, pageSize, status)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, conn.Edges, pageMeta(conn.PageInfo))
}

// Get godoc
// @Summary      Get a page by slug
// @Tags         pages
// @Produce      json
// @Param        slug  path  string  true  "Page slug"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Failure      404  {object}  common.Response
// @Router       /pages/{slug} [get]
func (h *PageHandler) Get(c *gin.Context) {
	page, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, page)
}

// Create godoc
// @Summary      Create a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateContentRequest  true  "Page payload"
// @Success      201  {object}  common.Response{data=domain.Page}
// @Router       /pages [post]
func (h *PageHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	page, err := h.service.Create(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, page)
}

// Update godoc
// @Summary      Update a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Page ID"
// @Param        request  body  domain.UpdateContentRequest  true  "Fields to change"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Router       /pages/{id} [patch]
func (h *PageHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	page, err := h.service.Update(middleware.GetViewer(c), id, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, page)
}

// Publish godoc
// @Summary      Publish a page
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Router       /pages/{id}/publish [post]
func (h *PageHandler) Publish(c *gin.Context) {
	h.transition(c, h.service.Publish, domain.EntityPage)
}

// Unpublish godoc
// @Summary      Revert a page to draft
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Router       /pages/{id}/unpublish [post]
func (h *PageHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.service.Unpublish, "")
}

// Archive godoc
// @Summary      Archive a page
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Router       /pages/{id}/archive [post]
func (h *PageHandler) Archive(c *gin.Context) {
	h.transition(c, h.service.Archive, "")
}

// SubmitForReview godoc
// @Summary      Submit a page draft for review
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      200  {object}  common.Response{data=domain.Page}
// @Router       /pages/{id}/review [post]
func (h *PageHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.service.SubmitForReview, "")
}

func (h *PageHandler) transition(c *gin.Context, op func(viewer *authz.Viewer, id uuid.UUID) (*domain.Page, error), countAs string) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	page, err := op(middleware.GetViewer(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	if countAs != "" {
		middleware.CountPublish(countAs)
	}
	common.Success(c, page)
}

// Delete godoc
// @Summary      Delete a page (soft)
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      204
// @Router       /pages/{id} [delete]
func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(middleware.GetViewer(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}

// ListRevisions godoc
// @Summary      List a page's revisions
// @Tags         pages
// @Produce      json
// @Param        slug  path  string  true  "Page slug"
// @Success      200  {object}  common.Response{data=[]domain.RevisionResponse}
// @Router       /pages/{slug}/revisions [get]
func (h *PageHandler) ListRevisions(c *gin.Context) {
	page, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	revisions, err := h.service.ListRevisions(page.ID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, revisions)
}
