package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DealDesk-Platform/Document-Service/internal/api/handlers/document"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes wires the document endpoints. requireAuth is the bearer
// token middleware; it runs before any request body is read.
func RegisterRoutes(r *gin.Engine, docs *document.Handler, requireAuth gin.HandlerFunc) {
	// Enable CORS for preflight requests
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", healthCheck)

		documents := api.Group("/documents", requireAuth)
		{
			documents.POST("", docs.Upload)               // upload one or more files
			documents.GET("", docs.List)                  // list the company's documents
			documents.GET("/:id/download", docs.Download) // download a specific file
			documents.DELETE("/:id", docs.Delete)         // delete file + metadata
		}
	}
}
