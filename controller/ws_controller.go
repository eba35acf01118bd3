package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/middleware"
	"github.com/Itish41/portfolio-cms/realtime"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ApprovalFeed streams approval events to reviewers over a websocket.
func ApprovalFeed(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.CurrentIdentity(c)
		if !ok || !id.CanReview() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}
		if err := hub.Serve(c.Writer, c.Request, id.UserID); err != nil {
			log.Printf("[ApprovalFeed] %v", err)
		}
	}
}
