package services

import (
	"context"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/dto"
)

// RequestReaderSvc defines read operations for issuance request data
type RequestReaderSvc interface {
	// GetRequestByID retrieves a specific issuance request by its ID.
	GetRequestByID(ctx context.Context, requestID string) (*domain.IssuanceRequest, error)

	// ListRequests retrieves a paginated list of issuance requests.
	ListRequests(ctx context.Context, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)
}

// RequestWriterSvc defines the approval workflow operations. Every transition
// is a guarded, atomic read-modify-write against the persisted status.
type RequestWriterSvc interface {
	// CreateRequest files a new issuance request in PENDING state.
	CreateRequest(ctx context.Context, req dto.CreateRequestRequest, creatorUserID string) (*domain.IssuanceRequest, error)

	// ApproveRequest moves a PENDING request to APPROVED.
	ApproveRequest(ctx context.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error)

	// RejectRequest moves a PENDING or APPROVED request to REJECTED.
	// Remarks are mandatory.
	RejectRequest(ctx context.Context, requestID string, remarks string, actorUserID string) (*domain.IssuanceRequest, error)

	// ReleaseRequest moves an APPROVED request to RELEASED.
	ReleaseRequest(ctx context.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error)
}

// RequestSvcFacade combines all request-related service interfaces
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
}
