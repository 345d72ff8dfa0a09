package storage

import (
	"sort"
	"sync"

	"github.com/DealDesk-Platform/Document-Service/internal/models"
)

// MemoryStore implements Store with in-process maps. Used in tests and as a
// fallback when no database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]models.Document
	companies map[string]models.Company
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]models.Document),
		companies: make(map[string]models.Company),
	}
}

func (m *MemoryStore) SaveDocument(doc models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *MemoryStore) GetDocument(id string) (models.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, exists := m.documents[id]
	return doc, exists
}

func (m *MemoryStore) ListDocuments(companyID string) []models.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]models.Document, 0)
	for _, doc := range m.documents {
		if doc.CompanyID == companyID {
			docs = append(docs, doc)
		}
	}

	// Newest first
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	return docs
}

func (m *MemoryStore) DeleteDocument(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[id]; exists {
		delete(m.documents, id)
		return true
	}
	return false
}

func (m *MemoryStore) GetCompanyByUserID(userID string) (models.Company, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, company := range m.companies {
		if company.UserID == userID {
			return company, true
		}
	}
	return models.Company{}, false
}

func (m *MemoryStore) SaveCompany(company models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[company.ID] = company
	return nil
}
