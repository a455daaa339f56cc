package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/middleware"
	"github.com/caddystats/content-backend/internal/service"
)

// CommerceHandler handles HTTP requests for products, purchases and licenses
type CommerceHandler struct {
	products  service.ProductService
	purchases service.PurchaseService
}

// NewCommerceHandler creates a new CommerceHandler
func NewCommerceHandler(products service.ProductService, purchases service.PurchaseService) *CommerceHandler {
	return &CommerceHandler{products: products, purchases: purchases}
}

// ListProducts godoc
// @Summary      List products
// @Tags         commerce
// @Produce      json
// @Param        after      query  string  false  "Opaque cursor from a previous page"
// @Param        page_size  query  int     false  "Rows per page (max 100)"  default(20)
// @Param        status     query  string  false  "Status filter"  default(published)
// @Success      200  {object}  common.Response{data=[]domain.Product}
// @Router       /products [get]
func (h *CommerceHandler) ListProducts(c *gin.Context) {
	after, pageSize, status := listQuery(c)

	conn, err := h.products.List(middleware.GetViewer(c), after, pageSize, status)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessWithMeta(c, conn.Edges, pageMeta(conn.PageInfo))
}

// GetProduct godoc
// @Summary      Get a product by slug
// @Tags         commerce
// @Produce      json
// @Param        slug  path  string  true  "Product slug"
// @Success      200  {object}  common.Response{data=domain.Product}
// @Failure      404  {object}  common.Response
// @Router       /products/{slug} [get]
func (h *CommerceHandler) GetProduct(c *gin.Context) {
	product, err := h.products.GetBySlug(c.Request.Context(), middleware.GetViewer(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, product)
}

// CreateProduct godoc
// @Summary      Create a product
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateProductRequest  true  "Product payload"
// @Success      201  {object}  common.Response{data=domain.Product}
// @Router       /products [post]
func (h *CommerceHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	product, err := h.products.Create(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, product)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Product ID"
// @Param        request  body  domain.UpdateProductRequest  true  "Fields to change"
// @Success      200  {object}  common.Response{data=domain.Product}
// @Router       /products/{id} [patch]
func (h *CommerceHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), middleware.GetViewer(c), id, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, product)
}

// PublishProduct godoc
// @Summary      Publish a product
// @Tags         commerce
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  common.Response{data=domain.Product}
// @Failure      409  {object}  common.Response
// @Router       /products/{id}/publish [post]
func (h *CommerceHandler) PublishProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Publish(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	middleware.CountPublish(domain.EntityProduct)
	common.Success(c, product)
}

// ArchiveProduct godoc
// @Summary      Archive a product
// @Tags         commerce
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  common.Response{data=domain.Product}
// @Router       /products/{id}/archive [post]
func (h *CommerceHandler) ArchiveProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Archive(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, product)
}

// DeleteProduct godoc
// @Summary      Delete a product (soft)
// @Tags         commerce
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      204
// @Router       /products/{id} [delete]
func (h *CommerceHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.NoContent(c)
}

// Purchase godoc
// @Summary      Purchase a product
// @Description  Completes an order; non-service products grant a license key
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreatePurchaseRequest  true  "Purchase payload"
// @Success      201  {object}  common.Response{data=domain.Purchase}
// @Failure      404  {object}  common.Response
// @Router       /purchases [post]
func (h *CommerceHandler) Purchase(c *gin.Context) {
	var req domain.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	purchase, err := h.purchases.Purchase(middleware.GetViewer(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Created(c, purchase)
}

// ListPurchases godoc
// @Summary      List the caller's purchases
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Response{data=[]domain.Purchase}
// @Router       /purchases [get]
func (h *CommerceHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.purchases.ListPurchases(middleware.GetViewer(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, purchases)
}

// ListLicenses godoc
// @Summary      List the caller's licenses
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Response{data=[]domain.License}
// @Router       /licenses [get]
func (h *CommerceHandler) ListLicenses(c *gin.Context) {
	licenses, err := h.purchases.ListLicenses(middleware.GetViewer(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, licenses)
}

// VerifyLicense godoc
// @Summary      Verify a license key
// @Description  Unauthenticated endpoint used by installed templates
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Param        request  body  domain.VerifyLicenseRequest  true  "License key"
// @Success      200  {object}  common.Response{data=domain.VerifyLicenseResponse}
// @Failure      404  {object}  common.Response
// @Router       /licenses/verify [post]
func (h *CommerceHandler) VerifyLicense(c *gin.Context) {
	var req domain.VerifyLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	resp, err := h.purchases.VerifyLicense(&req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, resp)
}
