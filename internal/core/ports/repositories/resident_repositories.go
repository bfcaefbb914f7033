package repositories

import (
	"context"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// ResidentReader is the read-only lookup into the resident registry. The
// issuance core never writes residents.
type ResidentReader interface {
	// FindResidentByID retrieves a resident by their unique identifier.
	FindResidentByID(ctx context.Context, residentID string) (*domain.Resident, error)
}
