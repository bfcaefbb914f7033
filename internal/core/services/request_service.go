package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
)

// requestService implements the approval workflow for issuance requests.
// Transition guards are declared here; the repository enforces them at write
// time with a conditional update, so two operators racing on the same request
// cannot both succeed.
type requestService struct {
	requestRepo  portsrepo.RequestRepositoryFacade
	residentRepo portsrepo.ResidentReader
	clock        domain.Clock
	audit        portssvc.AuditSink
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo portsrepo.RequestRepositoryFacade, residentRepo portsrepo.ResidentReader, clock domain.Clock, audit portssvc.AuditSink) portssvc.RequestSvcFacade {
	return &requestService{
		requestRepo:  requestRepo,
		residentRepo: residentRepo,
		clock:        clock,
		audit:        audit,
	}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

// CreateRequest files a new issuance request in PENDING state.
func (s *requestService) CreateRequest(ctx context.Context, req dto.CreateRequestRequest, creatorUserID string) (*domain.IssuanceRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.ResidentID) == "" {
		return nil, fmt.Errorf("%w: residentID is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", apperrors.ErrValidation)
	}
	if !req.DocumentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, string(req.DocumentType))
	}

	// Resident lookup is read-only; an unknown resident surfaces as NotFound
	// with the offending ID.
	resident, err := s.residentRepo.FindResidentByID(ctx, req.ResidentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Resident not found for new request", slog.String("resident_id", req.ResidentID))
			return nil, fmt.Errorf("resident %s: %w", req.ResidentID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to look up resident", slog.String("error", err.Error()), slog.String("resident_id", req.ResidentID))
		return nil, fmt.Errorf("failed to look up resident %s: %w", req.ResidentID, err)
	}
	if !resident.IsActive {
		return nil, fmt.Errorf("%w: resident %s is not active", apperrors.ErrValidation, req.ResidentID)
	}

	now := s.clock.Now()
	request := domain.IssuanceRequest{
		RequestID:              uuid.NewString(),
		ResidentID:             req.ResidentID,
		RequestedByUserID:      creatorUserID,
		DocumentType:           req.DocumentType,
		Purpose:                strings.TrimSpace(req.Purpose),
		AdditionalRequirements: req.AdditionalRequirements,
		Status:                 domain.RequestPending,
		RequestedAt:            now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		logger.Error("Failed to save issuance request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save issuance request: %w", err)
	}

	logger.Info("Issuance request created", slog.String("request_id", request.RequestID), slog.String("document_type", string(request.DocumentType)))
	s.audit.Capture(creatorUserID, "request.created", map[string]any{
		"request_id":    request.RequestID,
		"resident_id":   request.ResidentID,
		"document_type": string(request.DocumentType),
	})
	return &request, nil
}

// ApproveRequest moves a PENDING request to APPROVED.
func (s *requestService) ApproveRequest(ctx context.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error) {
	return s.transition(ctx, requestID, portsrepo.RequestTransition{
		From:        []domain.RequestStatus{domain.RequestPending},
		To:          domain.RequestApproved,
		Remarks:     remarks,
		ActorUserID: actorUserID,
	}, "request.approved")
}

// RejectRequest moves a PENDING or APPROVED request to REJECTED. Remarks are
// mandatory and validated before any write.
func (s *requestService) RejectRequest(ctx context.Context, requestID string, remarks string, actorUserID string) (*domain.IssuanceRequest, error) {
	if strings.TrimSpace(remarks) == "" {
		return nil, fmt.Errorf("%w: rejection remarks are required", apperrors.ErrValidation)
	}
	return s.transition(ctx, requestID, portsrepo.RequestTransition{
		From:        []domain.RequestStatus{domain.RequestPending, domain.RequestApproved},
		To:          domain.RequestRejected,
		Remarks:     &remarks,
		ActorUserID: actorUserID,
	}, "request.rejected")
}

// ReleaseRequest moves an APPROVED request to RELEASED.
func (s *requestService) ReleaseRequest(ctx context.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error) {
	return s.transition(ctx, requestID, portsrepo.RequestTransition{
		From:        []domain.RequestStatus{domain.RequestApproved},
		To:          domain.RequestReleased,
		Remarks:     remarks,
		ActorUserID: actorUserID,
	}, "request.released")
}

func (s *requestService) transition(ctx context.Context, requestID string, t portsrepo.RequestTransition, event string) (*domain.IssuanceRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	t.TransitionedAt = s.clock.Now()
	request, err := s.requestRepo.ApplyTransition(ctx, requestID, t)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Request not found for transition", slog.String("request_id", requestID), slog.String("target_status", string(t.To)))
			return nil, err
		}
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Transition not legal from current status", slog.String("request_id", requestID), slog.String("target_status", string(t.To)))
			return nil, err
		}
		logger.Error("Failed to apply request transition", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to apply transition to %s: %w", t.To, err)
	}

	logger.Info("Request transitioned", slog.String("request_id", requestID), slog.String("status", string(request.Status)))
	s.audit.Capture(t.ActorUserID, event, map[string]any{
		"request_id":    request.RequestID,
		"document_type": string(request.DocumentType),
		"status":        string(request.Status),
	})
	return request, nil
}

// GetRequestByID retrieves a specific issuance request.
func (s *requestService) GetRequestByID(ctx context.Context, requestID string) (*domain.IssuanceRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find request by ID", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, fmt.Errorf("failed to find request %s: %w", requestID, err)
	}
	return request, nil
}

// ListRequests retrieves a paginated list of issuance requests.
func (s *requestService) ListRequests(ctx context.Context, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.Status != nil {
		switch *params.Status {
		case domain.RequestPending, domain.RequestApproved, domain.RequestReleased, domain.RequestRejected:
		default:
			return nil, fmt.Errorf("%w: unknown request status %q", apperrors.ErrValidation, string(*params.Status))
		}
	}

	requests, nextToken, err := s.requestRepo.ListRequests(ctx, params.Status, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list requests from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve requests: %w", err)
	}

	resp := &dto.ListRequestsResponse{
		Requests:  dto.ToRequestResponses(requests),
		NextToken: nextToken,
	}
	logger.Debug("Requests listed", slog.Int("count", len(requests)))
	return resp, nil
}
