package document

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Delete removes a document: stored bytes first (tolerating an already
// absent file), then the metadata record, which is authoritative. A crash in
// between leaves at worst a metadata row pointing at a missing file, which
// Download already treats as a recoverable fault; the reverse ordering could
// orphan bytes with no record left to find them by.
func (h *Handler) Delete(c *gin.Context) {
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
			"You do not have permission to delete this document")
		return
	}

	removed, err := h.files.Remove(c.Request.Context(), doc.Path)
	if err != nil {
		log.Printf("[DELETE] failed to remove %s: %v", doc.Path, err)
		handleError(c, http.StatusInternalServerError, "Deletion failed",
			"An error occurred while deleting the document")
		return
	}
	if !removed {
		log.Printf("[DELETE] file already absent, continuing with metadata cleanup: %s", doc.Path)
	}

	if !h.store.DeleteDocument(id) {
		handleError(c, http.StatusInternalServerError, "Deletion failed",
			"An error occurred while deleting the document")
		return
	}

	userID, _ := userIDFromContext(c)
	msg := fmt.Sprintf("Document %q has been successfully deleted", doc.Name)
	if err := h.notifier.Emit(userID, "document", msg); err != nil {
		log.Printf("warning: failed to send deletion notification: %v", err)
	}

	sendSuccess(c, gin.H{"id": doc.ID, "name": doc.Name}, "Document deleted successfully")
}
