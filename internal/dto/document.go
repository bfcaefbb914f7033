package dto

import (
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// IssueDocumentRequest is the payload for materializing a document from an
// approved request.
type IssueDocumentRequest struct {
	RequestID   string    `json:"requestID" binding:"required"`
	ValidFrom   time.Time `json:"validFrom" binding:"required"`
	ValidUntil  time.Time `json:"validUntil" binding:"required"`
	SignerName  string    `json:"signerName" binding:"required"`
	SignerTitle string    `json:"signerTitle" binding:"required"`
}

// ReSignRequest refreshes the signer fields on an issued document.
type ReSignRequest struct {
	SignerName  string `json:"signerName" binding:"required"`
	SignerTitle string `json:"signerTitle" binding:"required"`
}

// ListDocumentsParams holds parameters for listing issued documents.
type ListDocumentsParams struct {
	Limit     int
	NextToken *string
}

// DocumentResponse defines the data returned for an issued document, including
// the derived display status as of the serving instant.
type DocumentResponse struct {
	DocumentID      string     `json:"documentID"`
	RequestID       *string    `json:"requestID,omitempty"`
	ResidentID      string     `json:"residentID"`
	DocumentType    string     `json:"documentType"`
	DocumentNumber  string     `json:"documentNumber"`
	Purpose         string     `json:"purpose"`
	ValidFrom       time.Time  `json:"validFrom"`
	ValidUntil      time.Time  `json:"validUntil"`
	IsValid         bool       `json:"isValid"`
	SignerName      string     `json:"signerName"`
	SignerTitle     string     `json:"signerTitle"`
	SignedAt        time.Time  `json:"signedAt"`
	QRPayload       string     `json:"qrPayload"`
	RegeneratedAt   *time.Time `json:"regeneratedAt,omitempty"`
	DisplayStatus   string     `json:"displayStatus"`
	DaysUntilExpiry int        `json:"daysUntilExpiry"`
}

// ListDocumentsResponse is the paginated listing envelope.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// DocumentStatusResponse is the derived status of a document at an instant.
type DocumentStatusResponse struct {
	DocumentID      string    `json:"documentID"`
	DocumentNumber  string    `json:"documentNumber"`
	Status          string    `json:"status"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	AsOf            time.Time `json:"asOf"`
}

// ToDocumentResponse converts a domain.IssuedDocument to DocumentResponse,
// stamping the derived display status and expiry countdown.
func ToDocumentResponse(d *domain.IssuedDocument, status domain.DocumentDisplayStatus, daysUntilExpiry int) DocumentResponse {
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		RequestID:       d.RequestID,
		ResidentID:      d.ResidentID,
		DocumentType:    string(d.DocumentType),
		DocumentNumber:  d.DocumentNumber,
		Purpose:         d.Purpose,
		ValidFrom:       d.ValidFrom,
		ValidUntil:      d.ValidUntil,
		IsValid:         d.IsValid,
		SignerName:      d.SignerName,
		SignerTitle:     d.SignerTitle,
		SignedAt:        d.SignedAt,
		QRPayload:       d.QRPayload,
		RegeneratedAt:   d.RegeneratedAt,
		DisplayStatus:   string(status),
		DaysUntilExpiry: daysUntilExpiry,
	}
}
