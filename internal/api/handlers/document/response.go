package document

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleError writes the standard error envelope. message must be safe for
// clients; internal error details belong in the log, not here.
func handleError(c *gin.Context, status int, errMsg, message string) {
	c.JSON(status, gin.H{
		"error":     errMsg,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func sendSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}
