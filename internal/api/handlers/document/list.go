package document

import (
	"time"

	"github.com/gin-gonic/gin"
)

// documentSummary is the listing shape; storage paths stay internal.
type documentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns the authenticated company's documents, newest first.
func (h *Handler) List(c *gin.Context) {
	company, ok := h.companyForRequest(c)
	if !ok {
		return
	}

	docs := h.store.ListDocuments(company.ID)
	summaries := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, documentSummary{
			ID:        doc.ID,
			Name:      doc.Name,
			MimeType:  doc.MimeType,
			Size:      doc.Size,
			CreatedAt: doc.CreatedAt,
		})
	}

	sendSuccess(c, summaries, "Operation completed successfully")
}
