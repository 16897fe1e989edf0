package v1

import (
	"fmt"
	"net/http"

	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/report"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	svc       *service.ExamService
	renderer  *report.Renderer
	collector *metrics.Collector
}

func NewExamHandler(svc *service.ExamService, renderer *report.Renderer, collector *metrics.Collector) *ExamHandler {
	return &ExamHandler{svc: svc, renderer: renderer, collector: collector}
}

// Template hands the client a pre-filled blank form for a new study.
func (h *ExamHandler) Template(c *gin.Context) {
	patientID, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, err := h.svc.NewExamTemplate(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, form)
}

func (h *ExamHandler) Create(c *gin.Context) {
	patientID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form exam.FormState
	if !bindJSON(c, &form) {
		return
	}

	rec, err := h.svc.CreateExam(c.Request.Context(), patientID, &form, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.ExamsCreatedTotal.Inc()
	respondCreated(c, rec)
}

func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetExam(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rec)
}

// GetForm returns the study in its editable all-string representation.
func (h *ExamHandler) GetForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, rec, err := h.svc.GetExamForm(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"form":       form,
		"exam_id":    rec.ID,
		"patient_id": rec.PatientID,
	})
}

func (h *ExamHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form exam.FormState
	if !bindJSON(c, &form) {
		return
	}

	rec, err := h.svc.UpdateExam(c.Request.Context(), id, &form, actor(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rec)
}

func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteExam(c.Request.Context(), id, actor(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": id})
}

func (h *ExamHandler) ListByPatient(c *gin.Context) {
	patientID, ok := parseID(c, "id")
	if !ok {
		return
	}

	recs, err := h.svc.ListExams(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, recs)
}

// Report streams the study's printable PDF.
func (h *ExamHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetExam(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	buf, err := h.renderer.Render(c.Request.Context(), rec)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render report")
		return
	}

	h.collector.ReportsRenderedTotal.Inc()
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="colposcopia_%d.pdf"`, rec.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
