package repository

import (
	"context"
	"errors"

	"github.com/davissontiago/Mateco/internal/domain"
)

// ErrDocumentNotFound is returned when no issued document exists for
// the requested ID
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository defines the ledger of issued fiscal documents
type DocumentRepository interface {
	// StoreDocument records an authorized document
	StoreDocument(ctx context.Context, doc *domain.IssuedDocument) error

	// GetDocumentByID retrieves a document by its local ID
	GetDocumentByID(ctx context.Context, id string) (*domain.IssuedDocument, error)

	// ListDocuments retrieves issued documents, newest first
	ListDocuments(ctx context.Context, offset, limit int) ([]*domain.IssuedDocument, error)
}
