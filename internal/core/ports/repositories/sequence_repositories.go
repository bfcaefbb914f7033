package repositories

import (
	"context"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SequenceAllocator hands out the next integer for a (document_type, year)
// partition. The read-increment must be atomic relative to concurrent callers
// on the same partition; counting existing rows is not an acceptable
// implementation.
type SequenceAllocator interface {
	// NextInTx claims the next sequence value within the given transaction.
	// Values start at 1 and are strictly increasing per partition. If the
	// surrounding transaction rolls back, the claimed value is released with
	// it, so a persistence failure never leaks an unrecorded number.
	NextInTx(ctx context.Context, tx pgx.Tx, documentType domain.DocumentType, year int) (int64, error)
}
