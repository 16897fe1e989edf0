package v1

import (
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	svc       *service.AppointmentService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.AppointmentService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

type createAppointmentRequest struct {
	PatientID uint      `json:"patient_id" binding:"required"`
	DateTime  time.Time `json:"date_time" binding:"required"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CreateAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID: req.PatientID,
		DateTime:  req.DateTime,
		Reason:    req.Reason,
		Status:    appointment.Status(req.Status),
	}, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type updateAppointmentRequest struct {
	DateTime *time.Time `json:"date_time"`
	Reason   *string    `json:"reason"`
	Status   *string    `json:"status"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.UpdateAppointmentCommand{
		DateTime: req.DateTime,
		Reason:   req.Reason,
	}
	if req.Status != nil {
		st := appointment.Status(*req.Status)
		cmd.Status = &st
	}

	a, err := h.svc.UpdateAppointment(c.Request.Context(), id, cmd, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAppointment(c.Request.Context(), id, actor(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": id})
}

// Agenda returns appointments split into today/upcoming/past buckets.
func (h *AppointmentHandler) Agenda(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{}
	if raw := c.Query("patient_id"); raw != "" {
		if id := parseQueryInt(c, "patient_id", 0); id > 0 {
			pid := uint(id)
			q.PatientID = &pid
		}
	}

	agenda, err := h.svc.GetAgenda(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, agenda)
}
