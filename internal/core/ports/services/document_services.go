package services

import (
	"context"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/dto"
)

// DocumentReaderSvc defines read operations for issued document data
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a specific issued document by its ID.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.IssuedDocument, error)

	// GetDocumentStatus computes the derived display status of a document as
	// of the given instant (defaults to the injected clock's now).
	GetDocumentStatus(ctx context.Context, documentID string, asOf *time.Time) (*dto.DocumentStatusResponse, error)

	// ListDocumentsByResident retrieves a paginated list of documents issued
	// to a resident.
	ListDocumentsByResident(ctx context.Context, residentID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)

	// ListExpiringDocuments retrieves still-valid documents expiring within
	// the given number of days.
	ListExpiringDocuments(ctx context.Context, withinDays int) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines the post-approval document lifecycle operations.
type DocumentWriterSvc interface {
	// IssueDocument materializes an IssuedDocument from an approved request.
	// It allocates exactly one sequence number, in the same database
	// transaction that persists the document.
	IssueDocument(ctx context.Context, req dto.IssueDocumentRequest, actorUserID string) (*domain.IssuedDocument, error)

	// InvalidateDocument irreversibly marks a document as no longer
	// honorable. Invalidating an already-invalid document is a no-op.
	InvalidateDocument(ctx context.Context, documentID string, actorUserID string) (*domain.IssuedDocument, error)

	// RegenerateDocument re-renders the downstream PDF from the document's
	// immutable fields. Identity, number and validity window are unchanged.
	RegenerateDocument(ctx context.Context, documentID string, actorUserID string) (*domain.IssuedDocument, error)

	// ReSignDocument refreshes the signer fields without changing the
	// document number.
	ReSignDocument(ctx context.Context, documentID string, req dto.ReSignRequest, actorUserID string) (*domain.IssuedDocument, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
