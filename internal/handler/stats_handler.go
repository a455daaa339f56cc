package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caddystats/content-backend/internal/common"
	"github.com/caddystats/content-backend/internal/service"
)

// StatsHandler proxies golf-stats reads from the external Stats API
type StatsHandler struct {
	service service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Leaderboard godoc
// @Summary      Tournament leaderboard
// @Tags         stats
// @Produce      json
// @Param        id  path  string  true  "Tournament ID"
// @Success      200  {object}  common.Response
// @Router       /stats/tournaments/{id}/leaderboard [get]
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	payload, err := h.service.Leaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, payload)
}

// FeaturedEdges godoc
// @Summary      Featured player edges for a tournament
// @Tags         stats
// @Produce      json
// @Param        id  path  string  true  "Tournament ID"
// @Success      200  {object}  common.Response
// @Router       /stats/tournaments/{id}/featured-edges [get]
func (h *StatsHandler) FeaturedEdges(c *gin.Context) {
	payload, err := h.service.FeaturedEdges(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, payload)
}

// TournamentCard godoc
// @Summary      Tournament summary card
// @Tags         stats
// @Produce      json
// @Param        id  path  string  true  "Tournament ID"
// @Success      200  {object}  common.Response
// @Router       /stats/tournaments/{id}/card [get]
func (h *StatsHandler) TournamentCard(c *gin.Context) {
	payload, err := h.service.TournamentCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Success(c, payload)
}
