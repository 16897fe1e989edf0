package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"go.uber.org/zap"
)

type ExamService struct {
	repo        exam.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
	now         func() time.Time
}

func NewExamService(repo exam.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *ExamService {
	return &ExamService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		log:         log,
		now:         time.Now,
	}
}

// NewExamTemplate returns a blank form for a new study of the given patient:
// every field at its default sentinel, today's study date, and the patient's
// referrer pre-filled.
func (s *ExamService) NewExamTemplate(ctx context.Context, patientID uint) (*exam.FormState, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	return exam.Template(exam.NewDate(today.Year(), today.Month(), today.Day()), p.Referrer), nil
}

// CreateExam sanitizes a submitted form and persists it as a new study of
// the given patient.
func (s *ExamService) CreateExam(ctx context.Context, patientID uint, form *exam.FormState, actor, ip string) (*exam.Record, error) {
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	r, err := exam.Sanitize(form, patientID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to create study", zap.Error(err), zap.Uint("patient_id", patientID))
		return nil, fmt.Errorf("creating study: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "create",
		ResourceType: "exam",
		ResourceID:   strconv.FormatUint(uint64(r.ID), 10),
		IPAddress:    ip,
	})

	s.log.Info("study created",
		zap.Uint("exam_id", r.ID),
		zap.Uint("patient_id", patientID),
	)

	return r, nil
}

// GetExam returns one study with its patient preloaded.
func (s *ExamService) GetExam(ctx context.Context, id uint) (*exam.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// GetExamForm returns one study in its editable representation, together
// with the record it was hydrated from.
func (s *ExamService) GetExamForm(ctx context.Context, id uint) (*exam.FormState, *exam.Record, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return exam.Hydrate(r), r, nil
}

// UpdateExam sanitizes a resubmitted form and replaces the full clinical
// content of an existing study. The study keeps its identity and owning
// patient regardless of what the form claims.
func (s *ExamService) UpdateExam(ctx context.Context, id uint, form *exam.FormState, actor, ip string) (*exam.Record, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r, err := exam.Sanitize(form, existing.PatientID)
	if err != nil {
		return nil, err
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, r); err != nil {
		s.log.Error("failed to update study", zap.Error(err), zap.Uint("exam_id", id))
		return nil, fmt.Errorf("updating study: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "exam",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return r, nil
}

func (s *ExamService) DeleteExam(ctx context.Context, id uint, actor, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete study", zap.Error(err), zap.Uint("exam_id", id))
		return fmt.Errorf("deleting study: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "delete",
		ResourceType: "exam",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return nil
}

// ListExams returns all studies of one patient, most recent first.
func (s *ExamService) ListExams(ctx context.Context, patientID uint) ([]*exam.Record, error) {
	if _, err := s.patientRepo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, &exam.ListByPatientQuery{PatientID: patientID})
}
