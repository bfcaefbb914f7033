package domain

import "time"

// DocumentDisplayStatus is the derived (never stored) state of an issued
// document as of a given instant.
type DocumentDisplayStatus string

const (
	DocumentValid   DocumentDisplayStatus = "VALID"
	DocumentExpired DocumentDisplayStatus = "EXPIRED"
	DocumentInvalid DocumentDisplayStatus = "INVALID"
)

// IssuedDocument is the numbered, time-bounded artifact produced once a
// request is honored. DocumentNumber is unique system-wide and never changes
// after issuance; IsValid only ever transitions true to false.
type IssuedDocument struct {
	DocumentID      string       `json:"documentID"`
	RequestID       *string      `json:"requestID,omitempty"` // originating request, at most one document per request
	ResidentID      string       `json:"residentID"`
	DocumentType    DocumentType `json:"documentType"`
	DocumentNumber  string       `json:"documentNumber"`
	Purpose         string       `json:"purpose"`
	ValidFrom       time.Time    `json:"validFrom"`
	ValidUntil      time.Time    `json:"validUntil"`
	IsValid         bool         `json:"isValid"`
	SignerName      string       `json:"signerName"`
	SignerTitle     string       `json:"signerTitle"`
	SignedAt        time.Time    `json:"signedAt"`
	QRPayload       string       `json:"qrPayload"`
	RegeneratedAt   *time.Time   `json:"regeneratedAt,omitempty"`
	AuditFields
}
