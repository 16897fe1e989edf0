package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.Repository = (*PatientRepository)(nil)

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uint, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.BirthDate != nil {
		updates["birth_date"] = *cmd.BirthDate
	}
	if cmd.Sex != nil {
		updates["sex"] = *cmd.Sex
	}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.Email != nil {
		updates["email"] = *cmd.Email
	}
	if cmd.Referrer != nil {
		updates["referrer"] = *cmd.Referrer
	}
	if cmd.AdditionalData != nil {
		updates["additional_data"] = *cmd.AdditionalData
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating patient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes the patient and every study and appointment they own in a
// single transaction.
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&exam.Record{}).Error; err != nil {
			return fmt.Errorf("deleting patient studies: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&appointment.Appointment{}).Error; err != nil {
			return fmt.Errorf("deleting patient appointments: %w", err)
		}
		res := tx.Delete(&patient.Patient{}, id)
		if res.Error != nil {
			return fmt.Errorf("deleting patient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return patient.ErrPatientNotFound
		}
		return nil
	})
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	query := r.db.WithContext(ctx).Model(&patient.Patient{})

	if q.Search != "" {
		query = query.Where("name ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	var patients []*patient.Patient
	err := query.
		Order("name ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}
