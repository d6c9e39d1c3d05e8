package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

const actorContextKey = "auth.actor"

// Middleware authenticates requests with a Bearer JWT and stores the actor
// on the request context.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := service.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(actorContextKey, *actor)
		c.Next()
	}
}

// RequireRole rejects requests whose actor does not hold one of the given
// roles.
func RequireRole(roles ...workflows.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// ActorFromContext returns the authenticated actor set by Middleware.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}
