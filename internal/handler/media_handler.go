package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// MediaHandler handles HTTP requests for media assets
type MediaHandler struct {
	service service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// Upload godoc
// @Summary      Upload a file
// @Description  Multipart upload; metadata is stored in Postgres, bytes in object storage
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File to upload"
// @Success      201  {object}  common.Response{data=domain.MediaAsset}
// @Failure      400  {object}  common.Response
// @Failure      403  {object}  common.Response
// @Router       /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, 400, "Missing file", err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, 400, "Unreadable file", err)
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	asset, err := h.service.Upload(c.Request.Context(), middleware.GetViewer(c),
		fileHeader.Filename, contentType, fileHeader.Size, f)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, asset)
}

// List godoc
// @Summary      List media assets
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        after      query  string  false  "Opaque cursor from a previous page"
// @Param        page_size  query  int     false  "Rows per page (max 100)"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.MediaAsset}
// @Router       /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	after, pageSize, _ := listQuery(c)

	conn, err := h.service.List(middleware.GetViewer(c), after, pageSize)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, conn.Edges, pageMeta(conn.PageInfo))
}

// Get godoc
// @Summary      Get media asset metadata
// @Tags         media
// @Produce      json
// @Param        id  path  string  true  "Asset ID"
// @Success      200  {object}  common.Response{data=domain.MediaAsset}
// @Failure      404  {object}  common.Response
// @Router       /media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	asset, err := h.service.Get(id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, asset)
}

// DownloadURL godoc
// @Summary      Get a time-limited download URL for an asset
// @Tags         media
// @Produce      json
// @Param        id  path  string  true  "Asset ID"
// @Success      200  {object}  common.Response{data=string}
// @Failure      404  {object}  common.Response
// @Router       /media/{id}/download [get]
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	url, err := h.service.DownloadURL(c.Request.Context(), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, gin.H{"url": url})
}

// Delete godoc
// @Summary      Delete a media asset
// @Tags         media
// @Security     BearerAuth
// @Param        id  path  string  true  "Asset ID"
// @Success      204
// @Router       /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}

type attachRequest struct {
	AssetID   uuid.UUID `json:"asset_id" binding:"required"`
	OwnerType string    `json:"owner_type" binding:"required,oneof=post page template product"`
	OwnerID   uuid.UUID `json:"owner_id" binding:"required"`
	Note      *string   `json:"note"`
}

// Attach godoc
// @Summary      Attach an asset to a content entity
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  attachRequest  true  "Attachment payload"
// @Success      201  {object}  common.Response{data=domain.AssetLink}
// @Router       /media/attach [post]
func (h *MediaHandler) Attach(c *gin.Context) {
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	link, err := h.service.Attach(middleware.GetViewer(c), req.AssetID, req.OwnerType, req.OwnerID, req.Note)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, link)
}

// ListAttachments godoc
// @Summary      List assets attached to an entity
// @Tags         media
// @Produce      json
// @Param        owner_type  query  string  true  "post, page, template or product"
// @Param        owner_id    query  string  true  "Owner entity ID"
// @Success      200  {object}  common.Response{data=[]domain.AssetLink}
// @Router       /media/attachments [get]
func (h *MediaHandler) ListAttachments(c *gin.Context) {
	ownerID, ok := queryUUID(c, "owner_id")
	if !ok {
		return
	}
	links, err := h.service.ListAttachments(c.Query("owner_type"), ownerID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, links)
}
