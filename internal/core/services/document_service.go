package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
	"github.com/brgyhub/barangay_records_app/internal/utils/validity"
)

// DocumentServiceConfig carries the QR payload signing material.
type DocumentServiceConfig struct {
	QRSigningSecret string
	QRIssuer        string
}

// documentService implements the post-approval document lifecycle: issuance,
// derived status reads, invalidation, regeneration and re-signing.
type documentService struct {
	docRepo      portsrepo.DocumentRepositoryWithTx
	requestRepo  portsrepo.RequestRepositoryFacade
	residentRepo portsrepo.ResidentReader
	sequences    portsrepo.SequenceAllocator
	pdfRenderer  portssvc.PDFRenderer
	audit        portssvc.AuditSink
	clock        domain.Clock
	cfg          DocumentServiceConfig
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	docRepo portsrepo.DocumentRepositoryWithTx,
	requestRepo portsrepo.RequestRepositoryFacade,
	residentRepo portsrepo.ResidentReader,
	sequences portsrepo.SequenceAllocator,
	pdfRenderer portssvc.PDFRenderer,
	audit portssvc.AuditSink,
	clock domain.Clock,
	cfg DocumentServiceConfig,
) portssvc.DocumentSvcFacade {
	return &documentService{
		docRepo:      docRepo,
		requestRepo:  requestRepo,
		residentRepo: residentRepo,
		sequences:    sequences,
		pdfRenderer:  pdfRenderer,
		audit:        audit,
		clock:        clock,
		cfg:          cfg,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// GetDocumentByID retrieves a specific issued document.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.IssuedDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find document by ID", slog.String("error", err.Error()), slog.String("document_id", documentID))
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	return doc, nil
}

// GetDocumentStatus computes the derived display status as of asOf (or now).
func (s *documentService) GetDocumentStatus(ctx context.Context, documentID string, asOf *time.Time) (*dto.DocumentStatusResponse, error) {
	doc, err := s.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if asOf != nil {
		now = asOf.UTC()
	}

	return &dto.DocumentStatusResponse{
		DocumentID:      doc.DocumentID,
		DocumentNumber:  doc.DocumentNumber,
		Status:          string(validity.Status(doc, now)),
		DaysUntilExpiry: validity.DaysUntilExpiry(doc, now),
		AsOf:            now,
	}, nil
}

// ListDocumentsByResident retrieves a paginated list of a resident's documents.
func (s *documentService) ListDocumentsByResident(ctx context.Context, residentID string, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	docs, nextToken, err := s.docRepo.ListDocumentsByResident(ctx, residentID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list documents from repository", slog.String("error", err.Error()), slog.String("resident_id", residentID))
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	return &dto.ListDocumentsResponse{
		Documents: s.toDocumentResponses(docs),
		NextToken: nextToken,
	}, nil
}

// ListExpiringDocuments retrieves still-valid documents expiring within the
// given number of days, for the external alerting collaborator.
func (s *documentService) ListExpiringDocuments(ctx context.Context, withinDays int) (*dto.ListDocumentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if withinDays <= 0 {
		return nil, fmt.Errorf("%w: withinDays must be positive", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	cutoff := now.AddDate(0, 0, withinDays)
	docs, err := s.docRepo.FindDocumentsExpiringBefore(ctx, now, cutoff)
	if err != nil {
		logger.Error("Failed to query expiring documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve expiring documents: %w", err)
	}

	return &dto.ListDocumentsResponse{Documents: s.toDocumentResponses(docs)}, nil
}

// InvalidateDocument irreversibly flips is_valid to false. Repeating the call
// on an already-invalid document is a no-op, not an error.
func (s *documentService) InvalidateDocument(ctx context.Context, documentID string, actorUserID string) (*domain.IssuedDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	flipped, err := s.docRepo.InvalidateDocument(ctx, documentID, actorUserID, s.clock.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", documentID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to invalidate document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to invalidate document %s: %w", documentID, err)
	}

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload document %s: %w", documentID, err)
	}

	if flipped {
		logger.Info("Document invalidated", slog.String("document_id", documentID), slog.String("document_number", doc.DocumentNumber))
		s.audit.Capture(actorUserID, "document.invalidated", map[string]any{
			"document_id":     doc.DocumentID,
			"document_number": doc.DocumentNumber,
		})
	} else {
		logger.Debug("Document already invalid, no-op", slog.String("document_id", documentID))
	}
	return doc, nil
}

// RegenerateDocument re-renders the printable artifact from the document's
// immutable fields. Number, window and signer fields are untouched; only the
// regeneration audit timestamp moves.
func (s *documentService) RegenerateDocument(ctx context.Context, documentID string, actorUserID string) (*domain.IssuedDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	resident, err := s.residentRepo.FindResidentByID(ctx, doc.ResidentID)
	if err != nil {
		logger.Error("Failed to look up resident for regeneration", slog.String("error", err.Error()), slog.String("resident_id", doc.ResidentID))
		return nil, fmt.Errorf("failed to look up resident %s: %w", doc.ResidentID, err)
	}

	if err := s.pdfRenderer.RenderDocument(ctx, *doc, resident.DisplayName()); err != nil {
		logger.Error("PDF renderer failed", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to render document %s: %w", documentID, err)
	}

	now := s.clock.Now()
	if err := s.docRepo.MarkRegenerated(ctx, documentID, now, actorUserID); err != nil {
		logger.Error("Failed to stamp regeneration timestamp", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to record regeneration for %s: %w", documentID, err)
	}
	doc.RegeneratedAt = &now
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorUserID

	logger.Info("Document regenerated", slog.String("document_id", documentID), slog.String("document_number", doc.DocumentNumber))
	s.audit.Capture(actorUserID, "document.regenerated", map[string]any{
		"document_id":     doc.DocumentID,
		"document_number": doc.DocumentNumber,
	})
	return doc, nil
}

// ReSignDocument refreshes the signer fields. The document number and
// validity window never change here.
func (s *documentService) ReSignDocument(ctx context.Context, documentID string, req dto.ReSignRequest, actorUserID string) (*domain.IssuedDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.docRepo.UpdateSigner(ctx, documentID, req.SignerName, req.SignerTitle, now, actorUserID); err != nil {
		logger.Error("Failed to update signer fields", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to re-sign document %s: %w", documentID, err)
	}
	doc.SignerName = req.SignerName
	doc.SignerTitle = req.SignerTitle
	doc.SignedAt = now
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorUserID

	logger.Info("Document re-signed", slog.String("document_id", documentID), slog.String("signer", req.SignerName))
	s.audit.Capture(actorUserID, "document.resigned", map[string]any{
		"document_id":     doc.DocumentID,
		"document_number": doc.DocumentNumber,
	})
	return doc, nil
}

func (s *documentService) toDocumentResponses(docs []domain.IssuedDocument) []dto.DocumentResponse {
	now := s.clock.Now()
	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = dto.ToDocumentResponse(&docs[i], validity.Status(&docs[i], now), validity.DaysUntilExpiry(&docs[i], now))
	}
	return responses
}
