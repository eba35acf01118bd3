package middleware

import (
	"net/http"
	"strings"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const identityKey = "identity"

// TokenParser turns a bearer token into the caller's identity.
type TokenParser interface {
	ParseToken(token string) (models.Identity, error)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// browsers cannot set headers on websocket upgrades
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// Authenticate rejects requests without a valid token and stores the
// identity for CurrentIdentity.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		id, err := tokens.ParseToken(token)
		if err != nil {
			log.Printf("[Authenticate] rejected token on %s: %v", c.FullPath(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRole lets through callers holding one of roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		if id.IsAdmin() {
			c.Next()
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	}
}

// CurrentIdentity returns the identity set by Authenticate.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
