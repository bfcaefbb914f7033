package pgsql

import (
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgsql repositories for the service layer.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RequestRepo:  newPgxRequestRepository(dbPool),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		SequenceRepo: newPgxSequenceRepository(dbPool),
		ResidentRepo: newPgxResidentRepository(dbPool),
	}
}
