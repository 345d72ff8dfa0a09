package document

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Download streams one document back to its owner with the stored name,
// declared content type and exact size as transfer metadata.
func (h *Handler) Download(c *gin.Context) {
	company, ok := h.companyForRequest(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		handleError(c, http.StatusBadRequest, "Invalid document ID",
			"Document ID is required")
		return
	}

	doc, exists := h.store.GetDocument(id)
	if !exists {
		handleError(c, http.StatusNotFound, "Document not found",
			"The requested document does not exist")
		return
	}

	if doc.CompanyID != company.ID {
		handleError(c, http.StatusForbidden, "Access denied",
			"You do not have permission to access this document")
		return
	}

	stream, err := h.files.OpenStream(c.Request.Context(), doc.Path)
	if err != nil {
		// Metadata exists but the bytes are unreachable; recoverable drift,
		// reported as a server fault.
		log.Printf("[DOWNLOAD] failed to open %s: %v", doc.Path, err)
		handleError(c, http.StatusInternalServerError, "File access error",
			"Unable to access the requested file")
		return
	}
	defer stream.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Name),
	}
	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, stream, extraHeaders)
}
