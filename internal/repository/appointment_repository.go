package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Preload("Patient").First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, id uint, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	updates := map[string]any{}
	if cmd.DateTime != nil {
		updates["date_time"] = *cmd.DateTime
	}
	if cmd.Reason != nil {
		updates["reason"] = *cmd.Reason
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating appointment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, appointment.ErrAppointmentNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&appointment.Appointment{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	query := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Preload("Patient")

	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.DateFrom != nil {
		query = query.Where("date_time >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date_time < ?", *q.DateTo)
	}

	var appts []*appointment.Appointment
	if err := query.Order("date_time ASC").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return appts, nil
}
