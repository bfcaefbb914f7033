package repositories

import (
	"context"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentReader defines read operations for issued document data
type DocumentReader interface {
	// FindDocumentByID retrieves a specific issued document by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.IssuedDocument, error)

	// FindDocumentByRequestID retrieves the document issued for a request, if any.
	FindDocumentByRequestID(ctx context.Context, requestID string) (*domain.IssuedDocument, error)

	// ListDocumentsByResident retrieves a paginated list of documents issued to
	// a resident using token-based pagination.
	ListDocumentsByResident(ctx context.Context, residentID string, limit int, nextToken *string) ([]domain.IssuedDocument, *string, error)

	// FindDocumentsExpiringBefore retrieves still-valid documents whose
	// validity window ends within (now, cutoff].
	FindDocumentsExpiringBefore(ctx context.Context, now time.Time, cutoff time.Time) ([]domain.IssuedDocument, error)
}

// DocumentWriter defines write operations for issued document data
type DocumentWriter interface {
	// CreateDocumentInTx inserts an issued document within the given database
	// transaction. Unique violations on the originating request surface as
	// apperrors.ErrConflict (double issuance); unique violations on the
	// document number surface as apperrors.ErrAllocationConflict.
	CreateDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.IssuedDocument) error

	// InvalidateDocument flips is_valid to false if it is currently true.
	// Returns true when a row was flipped, false when the document was
	// already invalid. Never sets is_valid back to true.
	InvalidateDocument(ctx context.Context, documentID string, updatedByUserID string, updatedAt time.Time) (bool, error)

	// MarkRegenerated stamps the last-regenerated audit timestamp.
	MarkRegenerated(ctx context.Context, documentID string, regeneratedAt time.Time, updatedByUserID string) error

	// UpdateSigner refreshes the signer fields without touching the document
	// number or validity window.
	UpdateSigner(ctx context.Context, documentID string, signerName string, signerTitle string, signedAt time.Time, updatedByUserID string) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities so issuance can allocate and persist atomically.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
