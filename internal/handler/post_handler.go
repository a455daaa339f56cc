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

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	service service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List godoc
// @Summary      List posts
// @Description  Cursor-paginated post listing, newest first. Non-published statuses require editorial permission.
// @Tags         posts
// @Produce      json
// @Param        after      query  string  false  "Opaque cursor from a previous page"
// @Param        page_size  query  int     false  "Rows per page (max 100)"  default(20)
// @Param        status     query  string  false  "Status filter"  default(published)
// @Success      200  {object}  common.Response{data=[]domain.Post}
// @Failure      400  {object}  common.Response
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	after, pageSize, status := listQuery(c)

	conn, err := h.service.List(middleware.GetViewer(c), after, pageSize, status)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, conn.Edges, pageMeta(conn.PageInfo))
}

// Get godoc
// @Summary      Get a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Failure      404  {object}  common.Response
// @Router       /posts/{slug} [get]
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, post)
}

// Create godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateContentRequest  true  "Post payload"
// @Success      201  {object}  common.Response{data=domain.Post}
// @Failure      403  {object}  common.Response
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.Create(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, post)
}

// Update godoc
// @Summary      Update a post
// @Description  Partial update; a revision of the previous state is recorded
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Post ID"
// @Param        request  body  domain.UpdateContentRequest  true  "Fields to change"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Failure      403  {object}  common.Response
// @Failure      404  {object}  common.Response
// @Router       /posts/{id} [patch]
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.Update(middleware.GetViewer(c), id, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, post)
}

// Publish godoc
// @Summary      Publish a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Failure      409  {object}  common.Response
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) Publish(c *gin.Context) {
	h.transition(c, h.service.Publish, domain.EntityPost)
}

// Unpublish godoc
// @Summary      Revert a post to draft
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Router       /posts/{id}/unpublish [post]
func (h *PostHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.service.Unpublish, "")
}

// Archive godoc
// @Summary      Archive a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Failure      409  {object}  common.Response
// @Router       /posts/{id}/archive [post]
func (h *PostHandler) Archive(c *gin.Context) {
	h.transition(c, h.service.Archive, "")
}

// SubmitForReview godoc
// @Summary      Submit a draft for review
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Router       /posts/{id}/review [post]
func (h *PostHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.service.SubmitForReview, "")
}

func (h *PostHandler) transition(c *gin.Context, op func(viewer *authz.Viewer, id uuid.UUID) (*domain.Post, error), countAs string) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	post, err := op(middleware.GetViewer(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	if countAs != "" {
		middleware.CountPublish(countAs)
	}
	common.Success(c, post)
}

// Delete godoc
// @Summary      Delete a post (soft)
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      204
// @Failure      403  {object}  common.Response
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
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
// @Summary      List a post's revisions
// @Tags         posts
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  common.Response{data=[]domain.RevisionResponse}
// @Router       /posts/{slug}/revisions [get]
func (h *PostHandler) ListRevisions(c *gin.Context) {
	post, err := h.service.GetBySlug(middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	revisions, err := h.service.ListRevisions(post.ID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, revisions)
}

type idsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// SetTags godoc
// @Summary      Replace a post's tags
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string      true  "Post ID"
// @Param        request  body  idsRequest  true  "Tag IDs"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Router       /posts/{id}/tags [put]
func (h *PostHandler) SetTags(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.SetTags(middleware.GetViewer(c), id, req.IDs)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, post)
}

// SetCategories godoc
// @Summary      Replace a post's categories
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string      true  "Post ID"
// @Param        request  body  idsRequest  true  "Category IDs"
// @Success      200  {object}  common.Response{data=domain.Post}
// @Router       /posts/{id}/categories [put]
func (h *PostHandler) SetCategories(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	post, err := h.service.SetCategories(middleware.GetViewer(c), id, req.IDs)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, post)
}
