package models

import "time"

// RequestStatus indicates where an issuance request sits in the approval workflow.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestReleased RequestStatus = "RELEASED"
	RequestRejected RequestStatus = "REJECTED"
)

// IssuanceRequest maps the issuance_requests table.
type IssuanceRequest struct {
	RequestID              string        // Primary Key (UUID)
	ResidentID             string        // residents.resident_id reference
	RequestedByUserID      string        // acting user reference
	DocumentType           string        // closed enum, see domain.DocumentType
	Purpose                string        // Not Null
	AdditionalRequirements *string       // Nullable
	Status                 RequestStatus // Default: PENDING
	Remarks                *string       // Nullable, mandatory content on rejection
	RequestedAt            time.Time
	ApprovedAt             *time.Time // Set exactly once, on the approve transition
	ReleasedAt             *time.Time // Set exactly once, on the release transition
	RejectedAt             *time.Time // Set exactly once, on the reject transition
	AuditFields
}
