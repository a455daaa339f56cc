package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// NavigationHandler handles HTTP requests for navigation menus
type NavigationHandler struct {
	service service.NavigationService
}

// NewNavigationHandler creates a new NavigationHandler
func NewNavigationHandler(service service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// ListMenus godoc
// @Summary      List navigation menus
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  common.Response{data=[]domain.NavMenu}
// @Router       /nav [get]
func (h *NavigationHandler) ListMenus(c *gin.Context) {
	menus, err := h.service.ListMenus()
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, menus)
}

// GetMenu godoc
// @Summary      Get a menu with its item tree
// @Tags         navigation
// @Produce      json
// @Param        slug  path  string  true  "Menu slug"
// @Success      200  {object}  common.Response{data=domain.NavMenu}
// @Failure      404  {object}  common.Response
// @Router       /nav/{slug} [get]
func (h *NavigationHandler) GetMenu(c *gin.Context) {
	menu, err := h.service.GetMenu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, menu)
}

type createMenuRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateMenu godoc
// @Summary      Create a navigation menu
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  createMenuRequest  true  "Menu payload"
// @Success      201  {object}  common.Response{data=domain.NavMenu}
// @Router       /nav [post]
func (h *NavigationHandler) CreateMenu(c *gin.Context) {
	var req createMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	menu, err := h.service.CreateMenu(middleware.GetViewer(c), req.Name)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, menu)
}

// AddItem godoc
// @Summary      Add an item to a menu
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug     path  string                   true  "Menu slug"
// @Param        request  body  domain.AddNavItemRequest  true  "Item payload"
// @Success      201  {object}  common.Response{data=domain.NavItem}
// @Router       /nav/{slug}/items [post]
func (h *NavigationHandler) AddItem(c *gin.Context) {
	var req domain.AddNavItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), middleware.GetViewer(c), c.Param("slug"), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, item)
}

// RemoveItem godoc
// @Summary      Remove an item from a menu
// @Tags         navigation
// @Security     BearerAuth
// @Param        slug  path  string  true  "Menu slug"
// @Param        id    path  string  true  "Item ID"
// @Success      204
// @Router       /nav/{slug}/items/{id} [delete]
func (h *NavigationHandler) RemoveItem(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.RemoveItem(c.Request.Context(), middleware.GetViewer(c), c.Param("slug"), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}

type reorderItemsRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}

// ReorderItems godoc
// @Summary      Replace a menu's item order
// @Tags         navigation
// @Accept       json
// @Security     BearerAuth
// @Param        slug     path  string               true  "Menu slug"
// @Param        request  body  reorderItemsRequest  true  "New order"
// @Success      204
// @Router       /nav/{slug}/items/reorder [put]
func (h *NavigationHandler) ReorderItems(c *gin.Context) {
	var req reorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.ReorderItems(c.Request.Context(), middleware.GetViewer(c), c.Param("slug"), req.OrderedIDs); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}
