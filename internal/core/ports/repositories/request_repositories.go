package repositories

import (
	"context"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// RequestTransition describes the single write an approval decision requires:
// the target status, the statuses it is legal from, and the fields stamped on
// the matching transition. The repository applies it as one conditional
// update so the guard is enforced at write time.
type RequestTransition struct {
	From           []domain.RequestStatus
	To             domain.RequestStatus
	Remarks        *string
	TransitionedAt time.Time
	ActorUserID    string
}

// RequestReader defines read operations for issuance request data
type RequestReader interface {
	// FindRequestByID retrieves a specific issuance request by its unique identifier.
	FindRequestByID(ctx context.Context, requestID string) (*domain.IssuanceRequest, error)

	// ListRequests retrieves a paginated list of requests, optionally filtered
	// by status, using token-based pagination.
	ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.IssuanceRequest, *string, error)
}

// RequestWriter defines write operations for issuance request data
type RequestWriter interface {
	// SaveRequest persists a newly created issuance request.
	SaveRequest(ctx context.Context, request domain.IssuanceRequest) error

	// ApplyTransition performs the guarded status update atomically: the row
	// is only written if its persisted status is one of transition.From.
	// Returns apperrors.ErrConflict when the guard fails and
	// apperrors.ErrNotFound when the request does not exist.
	ApplyTransition(ctx context.Context, requestID string, transition RequestTransition) (*domain.IssuanceRequest, error)
}

// RequestRepositoryFacade combines all request-related repository interfaces
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}
