// Package document implements the document ingestion and lifecycle
// endpoints: multi-file upload with validation and threat scanning,
// ownership-gated download and delete, and listing.
package document

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DealDesk-Platform/Document-Service/internal/filestore"
	"github.com/DealDesk-Platform/Document-Service/internal/models"
	"github.com/DealDesk-Platform/Document-Service/internal/scanner"
	"github.com/DealDesk-Platform/Document-Service/internal/services"
	"github.com/DealDesk-Platform/Document-Service/internal/storage"
)

const (
	// MaxFileSize is the per-file payload ceiling.
	MaxFileSize = 10 << 20
	// MaxFilesPerUpload caps the number of file parts in one request.
	MaxFilesPerUpload = 5

	// defaultUploadTimeout bounds the whole ingestion request; large
	// multi-file batches over slow links need a generous ceiling.
	defaultUploadTimeout = 5 * time.Minute
	// scanTimeout bounds the scanner call so a slow daemon cannot hang the
	// batch loop for the full request deadline.
	scanTimeout = 30 * time.Second
)

// Only business documents are accepted: PDF, Excel and PowerPoint.
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// Handler owns the document endpoints. All collaborators are injected so
// tests can substitute deterministic stubs.
type Handler struct {
	store    storage.Store
	files    filestore.FileStore
	scanner  scanner.Scanner
	notifier services.Notifier

	// uploadTimeout is the wall-clock ceiling for one ingestion request,
	// body reads included.
	uploadTimeout time.Duration
}

func New(store storage.Store, files filestore.FileStore, scan scanner.Scanner, notifier services.Notifier) *Handler {
	return &Handler{
		store:         store,
		files:         files,
		scanner:       scan,
		notifier:      notifier,
		uploadTimeout: defaultUploadTimeout,
	}
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

// companyForRequest resolves the authenticated user to its owning company.
// On failure it writes the error response and returns false.
func (h *Handler) companyForRequest(c *gin.Context) (models.Company, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		handleError(c, http.StatusUnauthorized, "Authentication required",
			"Please provide a valid authentication token")
		return models.Company{}, false
	}

	company, found := h.store.GetCompanyByUserID(userID)
	if !found {
		handleError(c, http.StatusNotFound, "Company not found",
			"No company associated with this user")
		return models.Company{}, false
	}
	return company, true
}

func isAllowedType(mimeType string) bool {
	// Strip parameters such as "; charset=..." before matching.
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return allowedMimeTypes[strings.TrimSpace(mimeType)]
}
