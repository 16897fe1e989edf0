package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	examRepo exam.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, examRepo exam.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		examRepo: examRepo,
		auditSvc: auditSvc,
		log:      log,
	}
}

// PatientDetail is a patient together with their study history, most recent
// study first.
type PatientDetail struct {
	Patient *patient.Patient `json:"patient"`
	Age     int              `json:"age"`
	Exams   []*exam.Record   `json:"exams"`
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, actor, ip string) (*patient.Patient, error) {
	if err := validatePatientCommand(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		Name:           strings.TrimSpace(cmd.Name),
		BirthDate:      cmd.BirthDate,
		Sex:            cmd.Sex,
		Phone:          strings.TrimSpace(cmd.Phone),
		Email:          strings.ToLower(strings.TrimSpace(cmd.Email)),
		Referrer:       strings.TrimSpace(cmd.Referrer),
		AdditionalData: cmd.AdditionalData,
	}
	if p.Sex == "" {
		p.Sex = patient.SexFemale
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   strconv.FormatUint(uint64(p.ID), 10),
		IPAddress:    ip,
	})

	s.log.Info("patient created",
		zap.Uint("patient_id", p.ID),
		zap.String("actor", actor),
	)

	return p, nil
}

// GetPatient returns one patient with the derived age and full study
// history.
func (s *PatientService) GetPatient(ctx context.Context, id uint) (*PatientDetail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exams, err := s.examRepo.ListByPatient(ctx, &exam.ListByPatientQuery{PatientID: id})
	if err != nil {
		s.log.Error("failed to list patient studies", zap.Error(err), zap.Uint("patient_id", id))
		return nil, fmt.Errorf("listing studies: %w", err)
	}

	return &PatientDetail{
		Patient: p,
		Age:     patient.DeriveAge(p.BirthDate, time.Now()),
		Exams:   exams,
	}, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uint, cmd *patient.UpdatePatientCommand, actor, ip string) (*patient.Patient, error) {
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name cannot be empty"}}
	}
	if cmd.Sex != nil && !cmd.Sex.IsValid() {
		return nil, &ValidationError{Fields: []string{"sex is invalid"}}
	}
	if cmd.BirthDate != nil && cmd.BirthDate.After(time.Now()) {
		return nil, &ValidationError{Fields: []string{"birth_date cannot be in the future"}}
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "patient",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return p, nil
}

// DeletePatient removes a patient and, with them, every study and
// appointment they own.
func (s *PatientService) DeletePatient(ctx context.Context, id uint, actor, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete patient", zap.Error(err), zap.Uint("patient_id", id))
		return fmt.Errorf("deleting patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "delete",
		ResourceType: "patient",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return nil
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validatePatientCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.Sex != "" && !cmd.Sex.IsValid() {
		errs = append(errs, "sex is invalid")
	}
	if cmd.BirthDate.After(time.Now()) {
		errs = append(errs, "birth_date cannot be in the future")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
