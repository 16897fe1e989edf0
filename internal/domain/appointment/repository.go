package appointment

import "context"

type Repository interface {
	// Create persists a new appointment.
	Create(ctx context.Context, a *Appointment) error

	// GetByID retrieves an appointment with its patient preloaded. Returns
	// ErrAppointmentNotFound if not found.
	GetByID(ctx context.Context, id uint) (*Appointment, error)

	// Update applies partial updates to an existing appointment.
	Update(ctx context.Context, id uint, cmd *UpdateAppointmentCommand) (*Appointment, error)

	// Delete removes an appointment permanently.
	Delete(ctx context.Context, id uint) error

	// List returns appointments matching the query, patient preloaded,
	// ordered by slot time ascending.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)
}
