package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestTimeout bounds the store work done for a single request.
const RequestTimeout = 10 * time.Second

// ExposeErrors adds the underlying error text to 500 responses.
var ExposeErrors bool

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

func failureBody(err error, fallback string) (int, gin.H) {
	code := apperror.StatusCode(err)
	body := gin.H{"message": apperror.PublicMessage(err, fallback)}
	if code == http.StatusInternalServerError {
		log.Printf("[controller] %s: %v", fallback, err)
		if ExposeErrors {
			body["error"] = err.Error()
		}
	}
	return code, body
}

// fail writes the portfolio error shape {message, error?}.
func fail(c *gin.Context, err error, fallback string) {
	code, body := failureBody(err, fallback)
	c.AbortWithStatusJSON(code, body)
}

// failEnvelope writes the standards error shape {success, message, error?}.
func failEnvelope(c *gin.Context, err error, fallback string) {
	code, body := failureBody(err, fallback)
	body["success"] = false
	c.AbortWithStatusJSON(code, body)
}

func envelope(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{"success": true, "message": message, "data": data})
}

func badRequest(err error) error {
	return apperror.Validation("%s", err.Error())
}

// chain returns guards followed by h in a fresh slice.
func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	return append(append(out, guards...), h)
}
