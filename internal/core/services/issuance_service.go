package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
	"github.com/brgyhub/barangay_records_app/internal/utils"
)

// maxAllocationAttempts bounds the internal retry on sequence collisions.
// Exhausting it surfaces apperrors.ErrAllocationConflict to the caller; a
// collision is never resolved by reusing a number.
const maxAllocationAttempts = 3

// IssueDocument materializes an IssuedDocument from an approved request.
//
// The sequence increment and the document insert run in one database
// transaction: a failed insert rolls the claimed number back, so nothing
// leaks. Issuance is permitted once the request is APPROVED; RELEASED is
// tracked independently by the approval workflow.
func (s *documentService) IssueDocument(ctx context.Context, req dto.IssueDocumentRequest, actorUserID string) (*domain.IssuedDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Validation happens before any sequence number is touched.
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, fmt.Errorf("%w: validUntil must be after validFrom", apperrors.ErrValidation)
	}
	if req.SignerName == "" || req.SignerTitle == "" {
		return nil, fmt.Errorf("%w: signer name and title are required", apperrors.ErrValidation)
	}

	request, err := s.requestRepo.FindRequestByID(ctx, req.RequestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find request for issuance", slog.String("error", err.Error()), slog.String("request_id", req.RequestID))
		}
		return nil, fmt.Errorf("failed to find request %s: %w", req.RequestID, err)
	}
	if !request.CanBeIssued() {
		logger.Warn("Request not issuable from current status", slog.String("request_id", req.RequestID), slog.String("status", string(request.Status)))
		return nil, fmt.Errorf("%w: request %s has status %s, expected APPROVED or RELEASED", apperrors.ErrConflict, req.RequestID, request.Status)
	}

	resident, err := s.residentRepo.FindResidentByID(ctx, request.ResidentID)
	if err != nil {
		logger.Error("Failed to look up resident for issuance", slog.String("error", err.Error()), slog.String("resident_id", request.ResidentID))
		return nil, fmt.Errorf("failed to look up resident %s: %w", request.ResidentID, err)
	}

	var doc *domain.IssuedDocument
	for attempt := 1; ; attempt++ {
		doc, err = s.issueOnce(ctx, request, resident, req, actorUserID)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrAllocationConflict) && attempt < maxAllocationAttempts {
			logger.Warn("Sequence allocation collision, retrying", slog.Int("attempt", attempt), slog.String("request_id", req.RequestID))
			continue
		}
		return nil, err
	}

	logger.Info("Document issued", slog.String("document_id", doc.DocumentID), slog.String("document_number", doc.DocumentNumber))
	s.audit.Capture(actorUserID, "document.issued", map[string]any{
		"document_id":     doc.DocumentID,
		"document_number": doc.DocumentNumber,
		"request_id":      req.RequestID,
		"document_type":   string(doc.DocumentType),
	})
	return doc, nil
}

// issueOnce runs a single allocate-and-persist attempt in one transaction.
func (s *documentService) issueOnce(ctx context.Context, request *domain.IssuanceRequest, resident *domain.Resident, req dto.IssueDocumentRequest, actorUserID string) (*domain.IssuedDocument, error) {
	tx, err := s.docRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin issuance transaction: %w", err)
	}
	defer s.docRepo.Rollback(ctx, tx) // No-op once committed.

	year := req.ValidFrom.UTC().Year()
	seq, err := s.sequences.NextInTx(ctx, tx, request.DocumentType, year)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sequence for %s/%d: %w", request.DocumentType, year, err)
	}

	number, err := domain.FormatDocumentNumber(request.DocumentType, year, seq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	now := s.clock.Now()
	qrPayload, err := utils.BuildQRPayload(s.cfg.QRSigningSecret, s.cfg.QRIssuer, number, resident.DisplayName(), string(request.DocumentType), req.ValidUntil, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build qr payload for %s: %w", number, err)
	}

	requestID := request.RequestID
	doc := domain.IssuedDocument{
		DocumentID:     uuid.NewString(),
		RequestID:      &requestID,
		ResidentID:     request.ResidentID,
		DocumentType:   request.DocumentType,
		DocumentNumber: number,
		Purpose:        request.Purpose,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		IsValid:        true,
		SignerName:     req.SignerName,
		SignerTitle:    req.SignerTitle,
		SignedAt:       now,
		QRPayload:      qrPayload,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.docRepo.CreateDocumentInTx(ctx, tx, doc); err != nil {
		// ErrConflict: the request already has a document (double issuance).
		// ErrAllocationConflict: number collision, retried by the caller.
		return nil, err
	}

	if err := s.docRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit issuance for %s: %w", number, err)
	}
	return &doc, nil
}
