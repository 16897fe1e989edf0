package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"gorm.io/gorm"
)

type ExamRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

var _ exam.Repository = (*ExamRepository)(nil)

func (r *ExamRepository) Create(ctx context.Context, rec *exam.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ExamRepository) GetByID(ctx context.Context, id uint) (*exam.Record, error) {
	var rec exam.Record
	err := r.db.WithContext(ctx).Preload("Patient").First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, exam.ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching study: %w", err)
	}
	return &rec, nil
}

// Update replaces the full clinical content of a study. Select("*") forces
// zero values through, so a field cleared in the form is cleared in the row.
func (r *ExamRepository) Update(ctx context.Context, rec *exam.Record) error {
	res := r.db.WithContext(ctx).
		Model(&exam.Record{}).
		Where("id = ?", rec.ID).
		Select("*").
		Omit("id", "patient_id", "created_at").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("updating study: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return exam.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&exam.Record{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting study: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return exam.ErrExamNotFound
	}
	return nil
}

func (r *ExamRepository) ListByPatient(ctx context.Context, q *exam.ListByPatientQuery) ([]*exam.Record, error) {
	var recs []*exam.Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", q.PatientID).
		Order("study_date DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing studies: %w", err)
	}
	return recs, nil
}
