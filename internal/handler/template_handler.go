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

// TemplateHandler handles HTTP requests for site templates
type TemplateHandler struct {
	service service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// List godoc
// @Summary      List templates
// @Tags         templates
// @Produce      json
// @Param        after      query  string  false  "Opaque cursor from a previous page"
// @Param        page_size  query  int     false  "Rows per page (max 100)"  default(20)
// @Param        status     query  string  false  "Status filter"  default(published)
// @Success      200  {object}  common.Response{data=[]domain.Template}
// @Router       /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	after, pageSize, status := listQuery(c)

	conn, err := h.service.List(middleware.GetViewer(c), after, pageSize, status)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, conn.Edges, pageMeta(conn.PageInfo))
}

// Get godoc
// @Summary      Get a template by slug
// @Tags         templates
// @Produce      json
// @Param        slug  path  string  true  "Template slug"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Failure      404  {object}  common.Response
// @Router       /templates/{slug} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, tpl)
}

// Create godoc
// @Summary      Create a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateContentRequest  true  "Template payload"
// @Success      201  {object}  common.Response{data=domain.Template}
// @Router       /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	tpl, err := h.service.Create(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, tpl)
}

// Update godoc
// @Summary      Update a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Template ID"
// @Param        request  body  domain.UpdateContentRequest  true  "Fields to change"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Router       /templates/{id} [patch]
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	tpl, err := h.service.Update(middleware.GetViewer(c), id, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, tpl)
}

// Publish godoc
// @Summary      Publish a template
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template ID"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Router       /templates/{id}/publish [post]
func (h *TemplateHandler) Publish(c *gin.Context) {
	h.transition(c, h.service.Publish, domain.EntityTemplate)
}

// Unpublish godoc
// @Summary      Revert a template to draft
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template ID"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Router       /templates/{id}/unpublish [post]
func (h *TemplateHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.service.Unpublish, "")
}

// Archive godoc
// @Summary      Archive a template
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template ID"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Router       /templates/{id}/archive [post]
func (h *TemplateHandler) Archive(c *gin.Context) {
	h.transition(c, h.service.Archive, "")
}

// SubmitForReview godoc
// @Summary      Submit a template draft for review
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template ID"
// @Success      200  {object}  common.Response{data=domain.Template}
// @Router       /templates/{id}/review [post]
func (h *TemplateHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.service.SubmitForReview, "")
}

func (h *TemplateHandler) transition(c *gin.Context, op func(viewer *authz.Viewer, id uuid.UUID) (*domain.Template, error), countAs string) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	tpl, err := op(middleware.GetViewer(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	if countAs != "" {
		middleware.CountPublish(countAs)
	}
	common.Success(c, tpl)
}

// Delete godoc
// @Summary      Delete a template (soft)
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template ID"
// @Success      204
// @Router       /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
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
// @Summary      List a template's revisions
// @Tags         templates
// @Produce      json
// @Param        slug  path  string  true  "Template slug"
// @Success      200  {object}  common.Response{data=[]domain.RevisionResponse}
// @Router       /templates/{slug}/revisions [get]
func (h *TemplateHandler) ListRevisions(c *gin.Context) {
	tpl, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	revisions, err := h.service.ListRevisions(tpl.ID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, revisions)
}
