package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-ai/internal/service/arena"
	"github.com/iamasit07/connect4-ai/internal/strategy"
	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
)

// ArenaHandler serves leaderboards, match history and simulation runs.
type ArenaHandler struct {
	Arena *arena.Service
}

func NewArenaHandler(arenaSvc *arena.Service) *ArenaHandler {
	return &ArenaHandler{Arena: arenaSvc}
}

func (h *ArenaHandler) PlayerLeaderboard(c *gin.Context) {
	stats, err := h.Arena.PlayerLeaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ArenaHandler) StackLeaderboard(c *gin.Context) {
	ratings, err := h.Arena.StackLeaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stack leaderboard"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *ArenaHandler) MatchHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := queryInt(c, "limit", 20)
	matches, err := h.Arena.MatchHistory(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch match history"})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *ArenaHandler) Match(c *gin.Context) {
	matchID := c.Param("id")
	match, err := h.Arena.Match(matchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch match"})
		return
	}
	if match == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		return
	}
	c.JSON(http.StatusOK, match)
}

func (h *ArenaHandler) SimRuns(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	runs, err := h.Arena.SimRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch simulation runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Catalog lists the policies a stack can be built from.
func (h *ArenaHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"policies":     strategy.Catalog(),
		"defaultStack": strategy.DefaultStackNames(),
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
