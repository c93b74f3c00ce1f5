// Package models defines core data structures for documents, context, and chat responses.
package models

import "time"

// Document represents a stored source document with metadata.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentChunk is a retrievable slice of a document.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Filename   string    `json:"filename" db:"filename"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for creating or updating a document.
type DocumentInput struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
