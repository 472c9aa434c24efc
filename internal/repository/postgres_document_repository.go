package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davissontiago/Mateco/internal/domain"
)

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL
type PostgresDocumentRepository struct {
	db *pgxpool.Pool
}

// NewPostgresDocumentRepository creates a new PostgreSQL document repository
func NewPostgresDocumentRepository(db *pgxpool.Pool) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{
		db: db,
	}
}

// StoreDocument records an authorized document
func (r *PostgresDocumentRepository) StoreDocument(ctx context.Context, doc *domain.IssuedDocument) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO issued_documents (id, remote_id, batch_id, number, series, access_key, total, pdf_url, xml_url, archive_url, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, doc.ID, doc.RemoteID, doc.BatchID, doc.Number, doc.Series, doc.AccessKey, doc.Total,
		doc.PDFURL, doc.XMLURL, doc.ArchiveURL, doc.Status, doc.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to insert issued document: %w", err)
	}

	return nil
}

// GetDocumentByID retrieves a document by its local ID
func (r *PostgresDocumentRepository) GetDocumentByID(ctx context.Context, id string) (*domain.IssuedDocument, error) {
	var doc domain.IssuedDocument
	err := r.db.QueryRow(ctx, `
		SELECT id, remote_id, batch_id, number, series, access_key, total, pdf_url, xml_url, archive_url, status, issued_at
		FROM issued_documents
		WHERE id = $1
	`, id).Scan(
		&doc.ID, &doc.RemoteID, &doc.BatchID, &doc.Number, &doc.Series, &doc.AccessKey,
		&doc.Total, &doc.PDFURL, &doc.XMLURL, &doc.ArchiveURL, &doc.Status, &doc.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// ListDocuments retrieves issued documents, newest first
func (r *PostgresDocumentRepository) ListDocuments(ctx context.Context, offset, limit int) ([]*domain.IssuedDocument, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, remote_id, batch_id, number, series, access_key, total, pdf_url, xml_url, archive_url, status, issued_at
		FROM issued_documents
		ORDER BY issued_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	documents := []*domain.IssuedDocument{}
	for rows.Next() {
		var doc domain.IssuedDocument
		if err := rows.Scan(
			&doc.ID, &doc.RemoteID, &doc.BatchID, &doc.Number, &doc.Series, &doc.AccessKey,
			&doc.Total, &doc.PDFURL, &doc.XMLURL, &doc.ArchiveURL, &doc.Status, &doc.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}
