package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	"github.com/brgyhub/barangay_records_app/internal/models"
	"github.com/brgyhub/barangay_records_app/internal/utils/mapping"
	"github.com/brgyhub/barangay_records_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `
	document_id, request_id, resident_id, document_type, document_number,
	purpose, valid_from, valid_until, is_valid, signer_name, signer_title,
	signed_at, qr_payload, regenerated_at, created_at, created_by,
	last_updated_at, last_updated_by`

const (
	uniqueViolationCode = "23505"

	requestUniqueConstraint = "issued_documents_request_id_key"
	numberUniqueConstraint  = "issued_documents_document_number_key"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for issued document data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

// CreateDocumentInTx inserts an issued document within the given transaction.
// The one-document-per-request rule and document number uniqueness are both
// enforced by database constraints, not by racy pre-checks.
func (r *PgxDocumentRepository) CreateDocumentInTx(ctx context.Context, tx pgx.Tx, document domain.IssuedDocument) error {
	m := mapping.ToModelDocument(document)
	query := `
		INSERT INTO issued_documents (
			document_id, request_id, resident_id, document_type, document_number,
			purpose, valid_from, valid_until, is_valid, signer_name, signer_title,
			signed_at, qr_payload, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.DocumentID,
		m.RequestID,
		m.ResidentID,
		m.DocumentType,
		m.DocumentNumber,
		m.Purpose,
		m.ValidFrom,
		m.ValidUntil,
		m.IsValid,
		m.SignerName,
		m.SignerTitle,
		m.SignedAt,
		m.QRPayload,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case requestUniqueConstraint:
				return apperrors.NewAppError(409, "request already has an issued document", apperrors.ErrConflict)
			case numberUniqueConstraint:
				return apperrors.NewAppError(409, "document number "+m.DocumentNumber+" already taken", apperrors.ErrAllocationConflict)
			}
		}
		return apperrors.NewAppError(500, "failed to insert issued document "+m.DocumentID, err)
	}
	return nil
}

// FindDocumentByID retrieves an issued document by its ID.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.IssuedDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM issued_documents WHERE document_id = $1;`

	row := r.Pool.QueryRow(ctx, query, documentID)
	m, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by ID "+documentID, err)
	}

	d := mapping.ToDomainDocument(*m)
	return &d, nil
}

// FindDocumentByRequestID retrieves the document issued for a request, if any.
func (r *PgxDocumentRepository) FindDocumentByRequestID(ctx context.Context, requestID string) (*domain.IssuedDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM issued_documents WHERE request_id = $1;`

	row := r.Pool.QueryRow(ctx, query, requestID)
	m, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by request ID "+requestID, err)
	}

	d := mapping.ToDomainDocument(*m)
	return &d, nil
}

// ListDocumentsByResident retrieves a paginated list of a resident's
// documents, newest first, using token-based pagination.
func (r *PgxDocumentRepository) ListDocumentsByResident(ctx context.Context, residentID string, limit int, nextToken *string) ([]domain.IssuedDocument, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + documentColumns + ` FROM issued_documents WHERE resident_id = $1`
	args := []interface{}{residentID}

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (created_at, document_id) < ($2, $3)`
		args = append(args, cursorAt, cursorID)
	}

	query := baseQuery + ` ORDER BY created_at DESC, document_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query documents for resident "+residentID, err)
	}
	defer rows.Close()

	modelDocs := make([]models.IssuedDocument, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document row for resident "+residentID, scanErr)
		}
		modelDocs = append(modelDocs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating document rows for resident "+residentID, err)
	}

	var nextTokenVal *string
	results := modelDocs
	if len(modelDocs) > limit {
		last := modelDocs[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DocumentID)
		nextTokenVal = &token
		results = modelDocs[:limit]
	}

	return mapping.ToDomainDocumentSlice(results), nextTokenVal, nil
}

// FindDocumentsExpiringBefore retrieves still-valid documents whose validity
// window ends within (now, cutoff].
func (r *PgxDocumentRepository) FindDocumentsExpiringBefore(ctx context.Context, now time.Time, cutoff time.Time) ([]domain.IssuedDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM issued_documents
		WHERE is_valid = TRUE AND valid_until > $1 AND valid_until <= $2
		ORDER BY valid_until;`

	rows, err := r.Pool.Query(ctx, query, now, cutoff)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expiring documents", err)
	}
	defer rows.Close()

	modelDocs := []models.IssuedDocument{}
	for rows.Next() {
		m, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expiring document row", scanErr)
		}
		modelDocs = append(modelDocs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expiring document rows", err)
	}

	return mapping.ToDomainDocumentSlice(modelDocs), nil
}

// InvalidateDocument flips is_valid to false as a single conditional write.
// The is_valid = TRUE predicate makes repeated invalidations no-ops and keeps
// the flip one-way.
func (r *PgxDocumentRepository) InvalidateDocument(ctx context.Context, documentID string, updatedByUserID string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE issued_documents
		SET is_valid = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE document_id = $1 AND is_valid = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, documentID, updatedAt, updatedByUserID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to invalidate document "+documentID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}

	// Nothing flipped: either the document is already invalid or it is missing.
	var exists bool
	err = r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM issued_documents WHERE document_id = $1);`, documentID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check document existence for "+documentID, err)
	}
	if !exists {
		return false, apperrors.ErrNotFound
	}
	return false, nil
}

// MarkRegenerated stamps the last-regenerated audit timestamp.
func (r *PgxDocumentRepository) MarkRegenerated(ctx context.Context, documentID string, regeneratedAt time.Time, updatedByUserID string) error {
	query := `
		UPDATE issued_documents
		SET regenerated_at = $2,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE document_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, documentID, regeneratedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark document "+documentID+" regenerated", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document " + documentID + " not found for regeneration")
	}
	return nil
}

// UpdateSigner refreshes the signer fields without touching the document
// number or validity window.
func (r *PgxDocumentRepository) UpdateSigner(ctx context.Context, documentID string, signerName string, signerTitle string, signedAt time.Time, updatedByUserID string) error {
	query := `
		UPDATE issued_documents
		SET signer_name = $2,
		    signer_title = $3,
		    signed_at = $4,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE document_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, documentID, signerName, signerTitle, signedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update signer for document "+documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document " + documentID + " not found for re-signing")
	}
	return nil
}

// scanDocument scans a row selected with documentColumns.
func scanDocument(row pgx.Row) (*models.IssuedDocument, error) {
	var m models.IssuedDocument
	err := row.Scan(
		&m.DocumentID,
		&m.RequestID,
		&m.ResidentID,
		&m.DocumentType,
		&m.DocumentNumber,
		&m.Purpose,
		&m.ValidFrom,
		&m.ValidUntil,
		&m.IsValid,
		&m.SignerName,
		&m.SignerTitle,
		&m.SignedAt,
		&m.QRPayload,
		&m.RegeneratedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
