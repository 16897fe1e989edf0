package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"go.uber.org/zap"
)

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
	now         func() time.Time
}

func NewAppointmentService(repo appointment.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		log:         log,
		now:         time.Now,
	}
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, cmd *appointment.CreateAppointmentCommand, actor, ip string) (*appointment.Appointment, error) {
	if err := validateAppointmentCommand(cmd); err != nil {
		return nil, err
	}
	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = appointment.StatusPending
	}

	a := &appointment.Appointment{
		PatientID: cmd.PatientID,
		DateTime:  cmd.DateTime,
		Reason:    cmd.Reason,
		Status:    status,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatUint(uint64(a.ID), 10),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uint) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uint, cmd *appointment.UpdateAppointmentCommand, actor, ip string) (*appointment.Appointment, error) {
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}
	if cmd.DateTime != nil && cmd.DateTime.IsZero() {
		return nil, appointment.ErrDateTimeRequired
	}

	a, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uint, actor, ip string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete appointment", zap.Error(err), zap.Uint("appointment_id", id))
		return fmt.Errorf("deleting appointment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Actor:        actor,
		Action:       "delete",
		ResourceType: "appointment",
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		IPAddress:    ip,
	})

	return nil
}

// GetAgenda partitions appointments into today, upcoming and past buckets
// relative to the current instant. A same-day slot whose time has already
// passed lands in the past bucket, never in today's.
func (s *AppointmentService) GetAgenda(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.Agenda, error) {
	all, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	agenda := &appointment.Agenda{
		Today:    []*appointment.Appointment{},
		Upcoming: []*appointment.Appointment{},
		Past:     []*appointment.Appointment{},
	}
	for _, a := range all {
		switch appointment.Classify(a.DateTime, asOf) {
		case appointment.BucketToday:
			agenda.Today = append(agenda.Today, a)
		case appointment.BucketUpcoming:
			agenda.Upcoming = append(agenda.Upcoming, a)
		default:
			agenda.Past = append(agenda.Past, a)
		}
	}
	return agenda, nil
}

func validateAppointmentCommand(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	if cmd.PatientID == 0 {
		errs = append(errs, "patient_id is required")
	}
	if cmd.DateTime.IsZero() {
		errs = append(errs, "date_time is required")
	}
	if cmd.Status != "" && !cmd.Status.IsValid() {
		errs = append(errs, "status is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
