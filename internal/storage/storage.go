package storage

import "github.com/DealDesk-Platform/Document-Service/internal/models"

// Store is the metadata persistence contract. Document rows are the source
// of truth for existence; the byte payloads live in the file store.
type Store interface {
	SaveDocument(doc models.Document) error
	GetDocument(id string) (models.Document, bool)
	ListDocuments(companyID string) []models.Document
	DeleteDocument(id string) bool

	// GetCompanyByUserID resolves the authenticated user to its owning
	// company, or reports not found.
	GetCompanyByUserID(userID string) (models.Company, bool)
	SaveCompany(company models.Company) error
}
