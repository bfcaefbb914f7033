package models

import "time"

// IssuedDocument maps the issued_documents table.
type IssuedDocument struct {
	DocumentID     string  // Primary Key (UUID)
	RequestID      *string // Nullable back-reference; unique when set
	ResidentID     string
	DocumentType   string
	DocumentNumber string // Unique system-wide
	Purpose        string
	ValidFrom      time.Time
	ValidUntil     time.Time
	IsValid        bool // true -> false only, never back
	SignerName     string
	SignerTitle    string
	SignedAt       time.Time
	QRPayload      string
	RegeneratedAt  *time.Time
	AuditFields
}
