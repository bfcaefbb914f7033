package mapping

import (
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/models"
)

// ToModelRequest converts a domain IssuanceRequest to a model IssuanceRequest
func ToModelRequest(d domain.IssuanceRequest) models.IssuanceRequest {
	return models.IssuanceRequest{
		RequestID:              d.RequestID,
		ResidentID:             d.ResidentID,
		RequestedByUserID:      d.RequestedByUserID,
		DocumentType:           string(d.DocumentType),
		Purpose:                d.Purpose,
		AdditionalRequirements: d.AdditionalRequirements,
		Status:                 models.RequestStatus(d.Status),
		Remarks:                d.Remarks,
		RequestedAt:            d.RequestedAt,
		ApprovedAt:             d.ApprovedAt,
		ReleasedAt:             d.ReleasedAt,
		RejectedAt:             d.RejectedAt,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRequest converts a model IssuanceRequest to a domain IssuanceRequest
func ToDomainRequest(m models.IssuanceRequest) domain.IssuanceRequest {
	return domain.IssuanceRequest{
		RequestID:              m.RequestID,
		ResidentID:             m.ResidentID,
		RequestedByUserID:      m.RequestedByUserID,
		DocumentType:           domain.DocumentType(m.DocumentType),
		Purpose:                m.Purpose,
		AdditionalRequirements: m.AdditionalRequirements,
		Status:                 domain.RequestStatus(m.Status),
		Remarks:                m.Remarks,
		RequestedAt:            m.RequestedAt,
		ApprovedAt:             m.ApprovedAt,
		ReleasedAt:             m.ReleasedAt,
		RejectedAt:             m.RejectedAt,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRequestSlice converts a slice of model requests to domain requests
func ToDomainRequestSlice(ms []models.IssuanceRequest) []domain.IssuanceRequest {
	ds := make([]domain.IssuanceRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRequest(m)
	}
	return ds
}
