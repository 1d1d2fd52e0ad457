package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/auth"
	"github.com/playmatatu/lanes/internal/game"
)

const maxPlayerName = 32

// CreateLane starts a new lane and returns the token that controls it.
func CreateLane(m *game.Manager, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerName string `json:"player_name" binding:"required"`
			Scoring    string `json:"scoring,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. player_name required."})
			return
		}

		name := strings.TrimSpace(req.PlayerName)
		if name == "" || len(name) > maxPlayerName {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_name must be 1-32 characters"})
			return
		}

		s, err := m.Create(name, game.ScoringMode(req.Scoring))
		if errors.Is(err, game.ErrTooManySessions) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, expiresAt, err := issuer.Issue(s.ID, name)
		if err != nil {
			log.Printf("[ERROR] CreateLane - failed to issue token for %s: %v", s.ID, err)
			m.Close(s.ID, "token failure")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lane"})
			return
		}

		c.Header("X-Lane-ID", s.ID)
		c.JSON(http.StatusCreated, gin.H{
			"lane_id":    s.ID,
			"token":      token,
			"expires_at": expiresAt,
			"snapshot":   s.Snapshot(),
		})
	}
}

// ListLanes returns a summary of every active lane.
func ListLanes(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		lanes := m.List()
		c.Header("X-Lane-Count", strconv.Itoa(len(lanes)))
		c.JSON(http.StatusOK, gin.H{"lanes": lanes})
	}
}

// GetLane returns a lane's snapshot, falling back to the cached copy for
// lanes that have closed or are served by another process.
func GetLane(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if s, err := m.Get(id); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"lane_id":  id,
				"live":     true,
				"info":     s.Info(),
				"snapshot": s.Snapshot(),
			})
			return
		}

		snap, err := m.CachedSnapshot(c.Request.Context(), id)
		if errors.Is(err, game.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lane not found"})
			return
		}
		if err != nil {
			log.Printf("[ERROR] GetLane - cached snapshot for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lane"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lane_id": id, "live": false, "snapshot": snap})
	}
}

// SubmitIntent queues a player command for the lane's next tick.
func SubmitIntent(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in game.Intent
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid intent"})
			return
		}

		err := m.Submit(c.Param("id"), in)
		if errors.Is(err, game.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lane not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"accepted": true, "type": in.Type})
	}
}

// CloseLane ends a lane early.
func CloseLane(m *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := m.Close(id, "closed by player"); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "lane not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lane_id": id, "closed": true})
	}
}
