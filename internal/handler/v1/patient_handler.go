package v1

import (
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	svc       *service.PatientService
	collector *metrics.Collector
}

func NewPatientHandler(svc *service.PatientService, collector *metrics.Collector) *PatientHandler {
	return &PatientHandler{svc: svc, collector: collector}
}

type createPatientRequest struct {
	Name           string       `json:"name" binding:"required"`
	BirthDate      patient.Date `json:"birth_date"`
	Sex            string       `json:"sex"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	Referrer       string       `json:"referrer"`
	AdditionalData string       `json:"additional_data"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		Name:           req.Name,
		BirthDate:      req.BirthDate,
		Sex:            patient.Sex(req.Sex),
		Phone:          req.Phone,
		Email:          req.Email,
		Referrer:       req.Referrer,
		AdditionalData: req.AdditionalData,
	}, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.PatientsCreatedTotal.Inc()
	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, detail)
}

type updatePatientRequest struct {
	Name           *string       `json:"name"`
	BirthDate      *patient.Date `json:"birth_date"`
	Sex            *string       `json:"sex"`
	Phone          *string       `json:"phone"`
	Email          *string       `json:"email"`
	Referrer       *string       `json:"referrer"`
	AdditionalData *string       `json:"additional_data"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		Name:           req.Name,
		BirthDate:      req.BirthDate,
		Phone:          req.Phone,
		Email:          req.Email,
		Referrer:       req.Referrer,
		AdditionalData: req.AdditionalData,
	}
	if req.Sex != nil {
		sex := patient.Sex(*req.Sex)
		cmd.Sex = &sex
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), id, cmd, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePatient(c.Request.Context(), id, actor(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": id})
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	page, err := h.svc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
