package domain

import "time"

// RequestStatus indicates where an issuance request sits in the approval
// workflow. Rejected and released are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestReleased RequestStatus = "RELEASED"
	RequestRejected RequestStatus = "REJECTED"
)

// IsValid checks if the status is one of the defined workflow states.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestReleased, RequestRejected:
		return true
	default:
		return false
	}
}

// IssuanceRequest is a resident's ask for an official document. It is created
// in PENDING state and mutated only through the approval workflow.
type IssuanceRequest struct {
	RequestID              string        `json:"requestID"`
	ResidentID             string        `json:"residentID"`
	RequestedByUserID      string        `json:"requestedByUserID"`
	DocumentType           DocumentType  `json:"documentType"`
	Purpose                string        `json:"purpose"`
	AdditionalRequirements *string       `json:"additionalRequirements,omitempty"`
	Status                 RequestStatus `json:"status"`
	Remarks                *string       `json:"remarks,omitempty"`
	RequestedAt            time.Time     `json:"requestedAt"`
	ApprovedAt             *time.Time    `json:"approvedAt,omitempty"`
	ReleasedAt             *time.Time    `json:"releasedAt,omitempty"`
	RejectedAt             *time.Time    `json:"rejectedAt,omitempty"`
	AuditFields
}

// CanBeIssued reports whether a document may be materialized from the request.
// Issuance is gated on approval; release is tracked independently.
func (r *IssuanceRequest) CanBeIssued() bool {
	return r.Status == RequestApproved || r.Status == RequestReleased
}
