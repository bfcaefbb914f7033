package dto

import (
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// CreateRequestRequest is the payload for filing a new issuance request.
type CreateRequestRequest struct {
	ResidentID             string              `json:"residentID" binding:"required"`
	DocumentType           domain.DocumentType `json:"documentType" binding:"required"`
	Purpose                string              `json:"purpose" binding:"required"`
	AdditionalRequirements *string             `json:"additionalRequirements,omitempty"`
}

// DecisionRequest carries the optional remarks for approve/release decisions.
type DecisionRequest struct {
	Remarks *string `json:"remarks,omitempty"`
}

// RejectRequestRequest carries the mandatory remarks for a rejection.
type RejectRequestRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

// ListRequestsParams holds parameters for listing issuance requests.
type ListRequestsParams struct {
	Status    *domain.RequestStatus
	Limit     int
	NextToken *string
}

// RequestResponse defines the data returned for an issuance request.
type RequestResponse struct {
	RequestID              string     `json:"requestID"`
	ResidentID             string     `json:"residentID"`
	RequestedByUserID      string     `json:"requestedByUserID"`
	DocumentType           string     `json:"documentType"`
	Purpose                string     `json:"purpose"`
	AdditionalRequirements *string    `json:"additionalRequirements,omitempty"`
	Status                 string     `json:"status"`
	Remarks                *string    `json:"remarks,omitempty"`
	RequestedAt            time.Time  `json:"requestedAt"`
	ApprovedAt             *time.Time `json:"approvedAt,omitempty"`
	ReleasedAt             *time.Time `json:"releasedAt,omitempty"`
	RejectedAt             *time.Time `json:"rejectedAt,omitempty"`
}

// ListRequestsResponse is the paginated listing envelope.
type ListRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToRequestResponse converts a domain.IssuanceRequest to RequestResponse DTO.
func ToRequestResponse(r *domain.IssuanceRequest) RequestResponse {
	return RequestResponse{
		RequestID:              r.RequestID,
		ResidentID:             r.ResidentID,
		RequestedByUserID:      r.RequestedByUserID,
		DocumentType:           string(r.DocumentType),
		Purpose:                r.Purpose,
		AdditionalRequirements: r.AdditionalRequirements,
		Status:                 string(r.Status),
		Remarks:                r.Remarks,
		RequestedAt:            r.RequestedAt,
		ApprovedAt:             r.ApprovedAt,
		ReleasedAt:             r.ReleasedAt,
		RejectedAt:             r.RejectedAt,
	}
}

// ToRequestResponses converts a slice of domain requests to DTOs.
func ToRequestResponses(rs []domain.IssuanceRequest) []RequestResponse {
	responses := make([]RequestResponse, len(rs))
	for i := range rs {
		responses[i] = ToRequestResponse(&rs[i])
	}
	return responses
}
