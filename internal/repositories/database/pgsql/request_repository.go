package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	"github.com/brgyhub/barangay_records_app/internal/models"
	"github.com/brgyhub/barangay_records_app/internal/utils/mapping"
	"github.com/brgyhub/barangay_records_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `
	request_id, resident_id, requested_by_user_id, document_type, purpose,
	additional_requirements, status, remarks, requested_at, approved_at,
	released_at, rejected_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxRequestRepository struct {
	BaseRepository
}

// newPgxRequestRepository creates a new repository for issuance request data.
func newPgxRequestRepository(pool *pgxpool.Pool) portsrepo.RequestRepositoryFacade {
	return &PgxRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRequestRepository implements portsrepo.RequestRepositoryFacade
var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

// SaveRequest persists a newly created issuance request.
func (r *PgxRequestRepository) SaveRequest(ctx context.Context, request domain.IssuanceRequest) error {
	m := mapping.ToModelRequest(request)
	query := `
		INSERT INTO issuance_requests (
			request_id, resident_id, requested_by_user_id, document_type, purpose,
			additional_requirements, status, remarks, requested_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.ResidentID,
		m.RequestedByUserID,
		m.DocumentType,
		m.Purpose,
		m.AdditionalRequirements,
		m.Status,
		m.Remarks,
		m.RequestedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert issuance request "+m.RequestID, err)
	}
	return nil
}

// FindRequestByID retrieves an issuance request by its ID.
func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.IssuanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM issuance_requests WHERE request_id = $1;`

	row := r.Pool.QueryRow(ctx, query, requestID)
	m, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find request by ID "+requestID, err)
	}

	d := mapping.ToDomainRequest(*m)
	return &d, nil
}

// ApplyTransition performs the guarded status update as a single conditional
// write: the guard is part of the UPDATE predicate, so a concurrent operator
// who lost the race gets a conflict instead of a second success.
func (r *PgxRequestRepository) ApplyTransition(ctx context.Context, requestID string, t portsrepo.RequestTransition) (*domain.IssuanceRequest, error) {
	fromStatuses := make([]string, len(t.From))
	for i, s := range t.From {
		fromStatuses[i] = string(s)
	}

	query := `
		UPDATE issuance_requests
		SET status = $2,
		    remarks = COALESCE($3, remarks),
		    approved_at = CASE WHEN $2 = 'APPROVED' THEN $4 ELSE approved_at END,
		    released_at = CASE WHEN $2 = 'RELEASED' THEN $4 ELSE released_at END,
		    rejected_at = CASE WHEN $2 = 'REJECTED' THEN $4 ELSE rejected_at END,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE request_id = $1 AND status = ANY($6)
		RETURNING ` + requestColumns + `;`

	row := r.Pool.QueryRow(ctx, query,
		requestID,
		string(t.To),
		t.Remarks,
		t.TransitionedAt,
		t.ActorUserID,
		fromStatuses,
	)
	m, err := scanRequest(row)
	if err == nil {
		d := mapping.ToDomainRequest(*m)
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAppError(500, "failed to transition request "+requestID, err)
	}

	// Guard failed or the request does not exist; look at the current row to
	// tell the two apart.
	var currentStatus string
	err = r.Pool.QueryRow(ctx, `SELECT status FROM issuance_requests WHERE request_id = $1;`, requestID).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read request status for "+requestID, err)
	}
	return nil, apperrors.NewAppError(409, "request "+requestID+" has status "+currentStatus+", cannot transition to "+string(t.To), apperrors.ErrConflict)
}

// ListRequests retrieves a paginated list of requests using token-based
// pagination ordered by requested_at descending.
func (r *PgxRequestRepository) ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.IssuanceRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + requestColumns + ` FROM issuance_requests`
	filterClause := ``
	args := []interface{}{}
	if status != nil {
		args = append(args, string(*status))
		filterClause = ` WHERE status = $1`
	}

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		if filterClause == "" {
			filterClause = ` WHERE`
		} else {
			filterClause += ` AND`
		}
		filterClause += ` (requested_at, request_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, cursorAt, cursorID)
	}

	orderByClause := ` ORDER BY requested_at DESC, request_id DESC`
	query := baseQuery + filterClause + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query issuance requests", err)
	}
	defer rows.Close()

	modelRequests := make([]models.IssuanceRequest, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanRequest(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan issuance request row", scanErr)
		}
		modelRequests = append(modelRequests, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating issuance request rows", err)
	}

	var nextTokenVal *string
	results := modelRequests
	if len(modelRequests) > limit {
		last := modelRequests[limit-1]
		token := pagination.EncodeToken(last.RequestedAt, last.RequestID)
		nextTokenVal = &token
		results = modelRequests[:limit]
	}

	return mapping.ToDomainRequestSlice(results), nextTokenVal, nil
}

// scanRequest scans a row selected with requestColumns.
func scanRequest(row pgx.Row) (*models.IssuanceRequest, error) {
	var m models.IssuanceRequest
	err := row.Scan(
		&m.RequestID,
		&m.ResidentID,
		&m.RequestedByUserID,
		&m.DocumentType,
		&m.Purpose,
		&m.AdditionalRequirements,
		&m.Status,
		&m.Remarks,
		&m.RequestedAt,
		&m.ApprovedAt,
		&m.ReleasedAt,
		&m.RejectedAt,
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
