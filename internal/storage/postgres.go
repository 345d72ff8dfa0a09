package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/DealDesk-Platform/Document-Service/internal/models"
	_ "github.com/lib/pq"
)

// PostgresStore implements Store for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore establishes the connection and ensures the schema exists.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p := &PostgresStore{db: db}

	if err := p.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	log.Println("✅ Connected to PostgreSQL successfully")
	return p, nil
}

func (p *PostgresStore) createTables() error {
	query := `
    CREATE TABLE IF NOT EXISTS companies (
        id UUID PRIMARY KEY,
        user_id VARCHAR(255) NOT NULL UNIQUE,
        name VARCHAR(255) NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );

    CREATE TABLE IF NOT EXISTS documents (
        id UUID PRIMARY KEY,
        company_id UUID NOT NULL REFERENCES companies(id),
        name VARCHAR(255) NOT NULL,
        mime_type VARCHAR(100) NOT NULL,
        size BIGINT NOT NULL,
        path VARCHAR(500) NOT NULL UNIQUE,
        created_at TIMESTAMPTZ NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_documents_company_id ON documents(company_id);
    CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
    `

	_, err := p.db.Exec(query)
	return err
}

func (p *PostgresStore) SaveDocument(doc models.Document) error {
	query := `
    INSERT INTO documents (id, company_id, name, mime_type, size, path, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := p.db.Exec(query,
		doc.ID,
		doc.CompanyID,
		doc.Name,
		doc.MimeType,
		doc.Size,
		doc.Path,
		doc.CreatedAt,
	)

	return err
}

func (p *PostgresStore) GetDocument(id string) (models.Document, bool) {
	query := `
    SELECT id, company_id, name, mime_type, size, path, created_at
    FROM documents WHERE id = $1
    `

	var doc models.Document
	err := p.db.QueryRow(query, id).Scan(
		&doc.ID,
		&doc.CompanyID,
		&doc.Name,
		&doc.MimeType,
		&doc.Size,
		&doc.Path,
		&doc.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.Document{}, false
		}
		log.Printf("Error getting document: %v", err)
		return models.Document{}, false
	}

	return doc, true
}

func (p *PostgresStore) ListDocuments(companyID string) []models.Document {
	query := `
    SELECT id, company_id, name, mime_type, size, path, created_at
    FROM documents WHERE company_id = $1 ORDER BY created_at DESC
    `

	rows, err := p.db.Query(query, companyID)
	if err != nil {
		log.Printf("Error querying documents: %v", err)
		return []models.Document{}
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.CompanyID,
			&doc.Name,
			&doc.MimeType,
			&doc.Size,
			&doc.Path,
			&doc.CreatedAt,
		)
		if err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		docs = append(docs, doc)
	}

	return docs
}

func (p *PostgresStore) DeleteDocument(id string) bool {
	query := `DELETE FROM documents WHERE id = $1`
	result, err := p.db.Exec(query, id)
	if err != nil {
		log.Printf("Error deleting document: %v", err)
		return false
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0
}

func (p *PostgresStore) GetCompanyByUserID(userID string) (models.Company, bool) {
	query := `SELECT id, user_id, name FROM companies WHERE user_id = $1`

	var company models.Company
	err := p.db.QueryRow(query, userID).Scan(&company.ID, &company.UserID, &company.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Company{}, false
		}
		log.Printf("Error getting company: %v", err)
		return models.Company{}, false
	}

	return company, true
}

func (p *PostgresStore) SaveCompany(company models.Company) error {
	query := `
    INSERT INTO companies (id, user_id, name)
    VALUES ($1, $2, $3)
    ON CONFLICT (id) DO UPDATE SET
        user_id = EXCLUDED.user_id,
        name = EXCLUDED.name
    `

	_, err := p.db.Exec(query, company.ID, company.UserID, company.Name)
	return err
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
