package pgsql

import (
	"context"
	"errors"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// serializationFailureCode is Postgres class 40001; surfaced as an allocation
// conflict so the issuance service can retry with a fresh transaction.
const serializationFailureCode = "40001"

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository over the per-partition
// document number counters.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceAllocator {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceAllocator
var _ portsrepo.SequenceAllocator = (*PgxSequenceRepository)(nil)

// NextInTx claims the next value for a (document_type, year) partition.
//
// The upsert increment is a single atomic statement: the first caller for a
// partition inserts the counter row at 1, every later caller takes a row lock
// on it for the duration of the transaction. Two concurrent issuances on the
// same partition therefore serialize on this row and can never read the same
// value — counting issued documents and adding one would not survive that
// race. Rolling back the surrounding transaction releases the value with it.
func (r *PgxSequenceRepository) NextInTx(ctx context.Context, tx pgx.Tx, documentType domain.DocumentType, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (document_type, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (document_type, year)
		DO UPDATE SET value = document_sequences.value + 1
		RETURNING value;
	`
	var value int64
	err := tx.QueryRow(ctx, query, string(documentType), year).Scan(&value)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == serializationFailureCode {
			return 0, apperrors.NewAppError(409, "sequence counter contention for "+string(documentType), apperrors.ErrAllocationConflict)
		}
		return 0, apperrors.NewAppError(500, "failed to advance sequence for "+string(documentType), err)
	}
	return value, nil
}
