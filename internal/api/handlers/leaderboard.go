package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/game"
)

// GetLeaderboard returns the best completed games for a scoring mode
// (?scoring=traditional|additive, ?limit=N).
func GetLeaderboard(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := m.Settings().Rules.Scoring
		if q := c.Query("scoring"); q != "" {
			parsed, err := game.ParseScoringMode(q)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			mode = parsed
		}

		limit := 10
		if q := c.Query("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		entries, err := m.Leaderboard(c.Request.Context(), mode, limit)
		if err != nil {
			log.Printf("[ERROR] GetLeaderboard - %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"scoring": mode, "entries": entries})
	}
}

// GetGameHistory returns a completed game with its frames and balls.
func GetGameHistory(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
			return
		}

		rec, err := m.GetGame(c.Request.Context(), id)
		if errors.Is(err, game.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if err != nil {
			log.Printf("[ERROR] GetGameHistory - game %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
			return
		}

		rolls, err := m.GameRolls(c.Request.Context(), id)
		if err != nil {
			log.Printf("[ERROR] GetGameHistory - rolls for game %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"game":   rec,
			"frames": json.RawMessage(rec.Frames),
			"rolls":  rolls,
		})
	}
}
