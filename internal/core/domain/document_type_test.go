package domain_test

import (
	"testing"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypeIsValid(t *testing.T) {
	for _, dt := range domain.DocumentTypes {
		assert.True(t, dt.IsValid(), "expected %s to be valid", dt)
	}
	assert.False(t, domain.DocumentType("MARRIAGE_LICENSE").IsValid())
	assert.False(t, domain.DocumentType("").IsValid())
}

func TestFormatDocumentNumber(t *testing.T) {
	tests := []struct {
		docType  domain.DocumentType
		year     int
		sequence int64
		want     string
	}{
		{domain.DocTypeClearance, 2024, 1, "2024-CLE-0001"},
		{domain.DocTypeIndigency, 2024, 42, "2024-IND-0042"},
		{domain.DocTypeResidency, 2025, 999, "2025-RES-0999"},
		{domain.DocTypeBusinessPermitEndorsement, 2024, 12345, "2024-BPE-12345"},
	}

	for _, tt := range tests {
		got, err := domain.FormatDocumentNumber(tt.docType, tt.year, tt.sequence)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatDocumentNumberUnknownType(t *testing.T) {
	_, err := domain.FormatDocumentNumber(domain.DocumentType("UNKNOWN"), 2024, 1)
	assert.Error(t, err)
}

func TestCanBeIssued(t *testing.T) {
	tests := []struct {
		status domain.RequestStatus
		want   bool
	}{
		{domain.RequestPending, false},
		{domain.RequestApproved, true},
		{domain.RequestReleased, true},
		{domain.RequestRejected, false},
	}

	for _, tt := range tests {
		r := domain.IssuanceRequest{Status: tt.status}
		assert.Equal(t, tt.want, r.CanBeIssued(), "status %s", tt.status)
	}
}
