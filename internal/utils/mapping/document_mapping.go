package mapping

import (
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/models"
)

// ToModelDocument converts a domain IssuedDocument to a model IssuedDocument
func ToModelDocument(d domain.IssuedDocument) models.IssuedDocument {
	return models.IssuedDocument{
		DocumentID:     d.DocumentID,
		RequestID:      d.RequestID,
		ResidentID:     d.ResidentID,
		DocumentType:   string(d.DocumentType),
		DocumentNumber: d.DocumentNumber,
		Purpose:        d.Purpose,
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		IsValid:        d.IsValid,
		SignerName:     d.SignerName,
		SignerTitle:    d.SignerTitle,
		SignedAt:       d.SignedAt,
		QRPayload:      d.QRPayload,
		RegeneratedAt:  d.RegeneratedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model IssuedDocument to a domain IssuedDocument
func ToDomainDocument(m models.IssuedDocument) domain.IssuedDocument {
	return domain.IssuedDocument{
		DocumentID:     m.DocumentID,
		RequestID:      m.RequestID,
		ResidentID:     m.ResidentID,
		DocumentType:   domain.DocumentType(m.DocumentType),
		DocumentNumber: m.DocumentNumber,
		Purpose:        m.Purpose,
		ValidFrom:      m.ValidFrom,
		ValidUntil:     m.ValidUntil,
		IsValid:        m.IsValid,
		SignerName:     m.SignerName,
		SignerTitle:    m.SignerTitle,
		SignedAt:       m.SignedAt,
		QRPayload:      m.QRPayload,
		RegeneratedAt:  m.RegeneratedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDocumentSlice converts a slice of model documents to domain documents
func ToDomainDocumentSlice(ms []models.IssuedDocument) []domain.IssuedDocument {
	ds := make([]domain.IssuedDocument, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDocument(m)
	}
	return ds
}

// ToDomainResident converts a model Resident to a domain Resident
func ToDomainResident(m models.Resident) domain.Resident {
	return domain.Resident{
		ResidentID: m.ResidentID,
		FirstName:  m.FirstName,
		MiddleName: m.MiddleName,
		LastName:   m.LastName,
		Suffix:     m.Suffix,
		BirthDate:  m.BirthDate,
		IsActive:   m.IsActive,
	}
}
