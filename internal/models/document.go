package models

import (
	"time"
)

// Document is the persisted record of one stored file. It is immutable after
// creation; Size is the byte count confirmed on disk at write time.
type Document struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

// Company is the owning entity for documents. Every authenticated user maps
// to at most one company; the company ID scopes the storage namespace.
type Company struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
