package validity_test

import (
	"testing"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/brgyhub/barangay_records_app/internal/utils/validity"
	"github.com/stretchr/testify/assert"
)

func sampleDocument() *domain.IssuedDocument {
	return &domain.IssuedDocument{
		DocumentID:     "doc-1",
		DocumentNumber: "2024-CLE-0001",
		ValidFrom:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		IsValid:        true,
	}
}

func TestStatus_ValidInsideWindow(t *testing.T) {
	doc := sampleDocument()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.DocumentValid, validity.Status(doc, now))
}

func TestStatus_ExpiredAfterWindow(t *testing.T) {
	doc := sampleDocument()
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.DocumentExpired, validity.Status(doc, now))
}

func TestStatus_ValidAtExactWindowEnd(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, domain.DocumentValid, validity.Status(doc, doc.ValidUntil))
}

func TestStatus_InvalidOverridesDates(t *testing.T) {
	doc := sampleDocument()
	doc.IsValid = false

	inside := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.DocumentInvalid, validity.Status(doc, inside))
	assert.Equal(t, domain.DocumentInvalid, validity.Status(doc, after))
}

func TestDaysUntilExpiry(t *testing.T) {
	doc := sampleDocument()

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"a week out", time.Date(2024, 7, 24, 9, 30, 0, 0, time.UTC), 7},
		{"same day", time.Date(2024, 7, 31, 23, 0, 0, 0, time.UTC), 0},
		{"day after", time.Date(2024, 8, 1, 0, 30, 0, 0, time.UTC), -1},
		{"time of day ignored", time.Date(2024, 7, 30, 23, 59, 59, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validity.DaysUntilExpiry(doc, tt.now))
		})
	}
}
