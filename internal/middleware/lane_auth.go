package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/auth"
)

// ContextClaimsKey is where RequireLaneToken stores the verified claims.
const ContextClaimsKey = "lane_claims"

// RequireLaneToken accepts a lane token from the Authorization header or the
// token query parameter (browsers cannot set headers on WebSocket upgrades)
// and rejects requests whose token does not grant the :id lane.
func RequireLaneToken(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "lane token required"})
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid lane token"})
			return
		}
		if id := c.Param("id"); id != "" && claims.LaneID != id {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not grant this lane"})
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}
