package exam

import "context"

type Repository interface {
	// Create persists a new study for its owning patient.
	Create(ctx context.Context, r *Record) error

	// GetByID retrieves a study with its patient preloaded. Returns
	// ErrExamNotFound if not found.
	GetByID(ctx context.Context, id uint) (*Record, error)

	// Update replaces the full clinical content of an existing study,
	// keeping its identity and owning patient.
	Update(ctx context.Context, r *Record) error

	// Delete removes a study permanently.
	Delete(ctx context.Context, id uint) error

	// ListByPatient returns all studies of one patient, most recent study
	// date first.
	ListByPatient(ctx context.Context, q *ListByPatientQuery) ([]*Record, error)
}
