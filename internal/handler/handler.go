// Package handler maps HTTP requests onto the service layer.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/domain"
	"github.com/caddystats/content-backend/internal/pagination"
)

// paramUUID parses a UUID path parameter
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses a UUID query parameter
func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// listQuery extracts cursor pagination and status filter query params.
// Status defaults to published so anonymous listings work without flags.
func listQuery(c *gin.Context) (after *string, pageSize int, status domain.Status) {
	if v := c.Query("after"); v != "" {
		after = &v
	}
	pageSize = pagination.DefaultPageSize
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}
	status = domain.StatusPublished
	if v := c.Query("status"); v != "" {
		status = domain.Status(v)
	}
	return after, pageSize, status
}

// pageMeta converts connection page info to the response envelope's meta
func pageMeta(info pagination.PageInfo) *common.PageMeta {
	return &common.PageMeta{HasNextPage: info.HasNextPage, EndCursor: info.EndCursor}
}
