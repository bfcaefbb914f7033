package services

import (
	"context"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// PDFRenderer is the external collaborator that turns an issued document into
// its printable artifact. The core only triggers it; storage of the output is
// the renderer's concern.
type PDFRenderer interface {
	RenderDocument(ctx context.Context, document domain.IssuedDocument, residentName string) error
}

// AuditSink receives fire-and-forget events on every workflow transition.
// Implementations must never block or fail the calling operation.
type AuditSink interface {
	Capture(actorUserID string, event string, properties map[string]any)
}
