package patient

import "context"

type Repository interface {
	// Create persists a new patient.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound
	// if not found.
	GetByID(ctx context.Context, id uint) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uint, cmd *UpdatePatientCommand) (*Patient, error)

	// Delete removes the patient together with all their studies and
	// appointments.
	Delete(ctx context.Context, id uint) error

	// List returns a paginated, name-filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)
}
