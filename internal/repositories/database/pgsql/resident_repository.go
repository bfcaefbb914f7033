package pgsql

import (
	"context"
	"errors"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	"github.com/brgyhub/barangay_records_app/internal/models"
	"github.com/brgyhub/barangay_records_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxResidentRepository struct {
	db *pgxpool.Pool
}

// newPgxResidentRepository creates the read-only lookup into the resident
// registry. Resident writes belong to the registry subsystem, not this core.
func newPgxResidentRepository(db *pgxpool.Pool) portsrepo.ResidentReader {
	return &PgxResidentRepository{db: db}
}

// Ensure PgxResidentRepository implements portsrepo.ResidentReader
var _ portsrepo.ResidentReader = (*PgxResidentRepository)(nil)

// FindResidentByID retrieves a resident by their unique identifier.
func (r *PgxResidentRepository) FindResidentByID(ctx context.Context, residentID string) (*domain.Resident, error) {
	query := `
		SELECT resident_id, first_name, middle_name, last_name, suffix, birth_date, is_active
		FROM residents
		WHERE resident_id = $1;
	`
	var m models.Resident
	err := r.db.QueryRow(ctx, query, residentID).Scan(
		&m.ResidentID,
		&m.FirstName,
		&m.MiddleName,
		&m.LastName,
		&m.Suffix,
		&m.BirthDate,
		&m.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find resident by ID "+residentID, err)
	}

	d := mapping.ToDomainResident(m)
	return &d, nil
}
