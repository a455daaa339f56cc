package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// BlockHandler handles HTTP requests for content blocks
type BlockHandler struct {
	service service.BlockService
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(service service.BlockService) *BlockHandler {
	return &BlockHandler{service: service}
}

// List godoc
// @Summary      List blocks for an owner entity
// @Tags         blocks
// @Produce      json
// @Param        owner_type  query  string  true  "post, page or template"
// @Param        owner_id    query  string  true  "Owner entity ID"
// @Success      200  {object}  common.Response{data=[]domain.Block}
// @Router       /blocks [get]
func (h *BlockHandler) List(c *gin.Context) {
	ownerID, ok := queryUUID(c, "owner_id")
	if !ok {
		return
	}

	blocks, err := h.service.ListByOwner(c.Query("owner_type"), ownerID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, blocks)
}

// Add godoc
// @Summary      Append a block to an owner entity
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.AddBlockRequest  true  "Block payload"
// @Success      201  {object}  common.Response{data=domain.Block}
// @Router       /blocks [post]
func (h *BlockHandler) Add(c *gin.Context) {
	var req domain.AddBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	block, err := h.service.Add(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, block)
}

// Reorder godoc
// @Summary      Replace the sort order of an owner's blocks
// @Tags         blocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.ReorderBlocksRequest  true  "New order"
// @Success      200  {object}  common.Response{data=[]domain.Block}
// @Router       /blocks/reorder [put]
func (h *BlockHandler) Reorder(c *gin.Context) {
	var req domain.ReorderBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	blocks, err := h.service.Reorder(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, blocks)
}

// Remove godoc
// @Summary      Delete a block
// @Tags         blocks
// @Security     BearerAuth
// @Param        id  path  string  true  "Block ID"
// @Success      204
// @Router       /blocks/{id} [delete]
func (h *BlockHandler) Remove(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(middleware.GetViewer(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}
