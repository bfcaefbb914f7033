package domain

import "fmt"

// DocumentType is the closed set of official document kinds the barangay
// issues. New kinds require a new constant and a TypeCode entry.
type DocumentType string

const (
	DocTypeClearance                 DocumentType = "CLEARANCE"
	DocTypeIndigency                 DocumentType = "INDIGENCY"
	DocTypeResidency                 DocumentType = "RESIDENCY"
	DocTypeBusinessPermitEndorsement DocumentType = "BUSINESS_PERMIT_ENDORSEMENT"
)

// DocumentTypes lists every supported document type.
var DocumentTypes = []DocumentType{
	DocTypeClearance,
	DocTypeIndigency,
	DocTypeResidency,
	DocTypeBusinessPermitEndorsement,
}

// IsValid reports whether t is one of the supported document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocTypeClearance, DocTypeIndigency, DocTypeResidency, DocTypeBusinessPermitEndorsement:
		return true
	}
	return false
}

// TypeCode returns the fixed 3-letter code used in document numbers.
func (t DocumentType) TypeCode() (string, error) {
	switch t {
	case DocTypeClearance:
		return "CLE", nil
	case DocTypeIndigency:
		return "IND", nil
	case DocTypeResidency:
		return "RES", nil
	case DocTypeBusinessPermitEndorsement:
		return "BPE", nil
	}
	return "", fmt.Errorf("unknown document type %q", string(t))
}

// FormatDocumentNumber renders the canonical document number for a sequence
// value within a (type, year) partition, e.g. "2024-CLE-0001".
func FormatDocumentNumber(t DocumentType, year int, sequence int64) (string, error) {
	code, err := t.TypeCode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s-%04d", year, code, sequence), nil
}
