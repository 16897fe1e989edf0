package report

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"github.com/colposcopia/colpo-api/internal/storage"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// slotLabels captions the four image positions of the printed study.
var slotLabels = [exam.ImageSlots]string{
	"VISTA NORMAL",
	"VISTA ACIDO ACETICO",
	"VISTA LUGOL",
	"OTRA VISTA",
}

// Renderer produces the printable A4 report of one study. The clinic and
// clinician identity comes from configuration, never from the database.
type Renderer struct {
	cfg       config.ReportConfig
	uploadDir string
	baseURL   string
	client    *http.Client
	log       *zap.Logger
}

func NewRenderer(cfg config.ReportConfig, upload config.UploadConfig, log *zap.Logger) *Renderer {
	return &Renderer{
		cfg:       cfg,
		uploadDir: upload.Dir,
		baseURL:   upload.PublicBaseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
}

// Render lays out the study as a PDF. Every optional field goes through its
// display fallback, so an absent value prints its sentinel, not a blank.
func (r *Renderer) Render(ctx context.Context, rec *exam.Record) (*bytes.Buffer, error) {
	if rec.Patient == nil {
		return nil, fmt.Errorf("study %d has no patient loaded", rec.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	r.header(pdf, tr)
	r.patientBlock(pdf, tr, rec)
	r.gynecoBlock(pdf, tr, rec)
	r.findingsBlock(pdf, tr, rec)
	r.imageGrid(ctx, pdf, tr, rec)
	r.conclusionBlock(pdf, tr, rec)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return &buf, nil
}

func (r *Renderer) header(pdf *gofpdf.Fpdf, tr func(string) string) {
	if r.cfg.SchemaImagePath != "" {
		if _, err := os.Stat(r.cfg.SchemaImagePath); err == nil {
			opt := gofpdf.ImageOptions{ImageType: imageType(r.cfg.SchemaImagePath), ReadDpi: true}
			pdf.ImageOptions(r.cfg.SchemaImagePath, 160, 10, 35, 0, false, opt, 0, "")
		}
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, tr(r.cfg.ClinicName))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 6, tr(r.cfg.DoctorName))
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	if r.cfg.DoctorTitle != "" {
		pdf.Cell(0, 5, tr(r.cfg.DoctorTitle))
		pdf.Ln(5)
	}
	if r.cfg.DoctorSubtitle != "" {
		pdf.Cell(0, 5, tr(r.cfg.DoctorSubtitle))
		pdf.Ln(5)
	}
	for _, line := range r.cfg.CredentialLines {
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}
	if r.cfg.AddressLine != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.Cell(0, 5, tr(r.cfg.AddressLine))
		pdf.Ln(5)
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, tr("REPORTE DE COLPOSCOPIA"), "", 1, "C", false, 0, "")
	pdf.Ln(2)
}

func (r *Renderer) patientBlock(pdf *gofpdf.Fpdf, tr func(string) string, rec *exam.Record) {
	p := rec.Patient

	pdf.SetFont("Arial", "", 11)
	r.line(pdf, tr, "Paciente", p.Name)
	r.line(pdf, tr, "Edad", fmt.Sprintf("%d años", patient.DeriveAge(p.BirthDate, time.Now())))
	r.line(pdf, tr, "Fecha del estudio", rec.StudyDate.String())
	r.line(pdf, tr, "Enviada por", exam.DisplayValue("referred_by", rec.ReferredBy))
	pdf.Ln(2)
}

func (r *Renderer) gynecoBlock(pdf *gofpdf.Fpdf, tr func(string) string, rec *exam.Record) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("ANTECEDENTES GINECO-OBSTÉTRICOS"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)

	r.line(pdf, tr, "Menarca", optInt(rec.MenarcheAge))
	r.line(pdf, tr, "Ritmo menstrual", fallback(rec.MenstrualRhythm))
	r.line(pdf, tr, "Método anticonceptivo", fallback(rec.ContraceptiveMethod))
	r.line(pdf, tr, "IVSA", optInt(rec.IVSAAge))
	r.line(pdf, tr, "Gestas", optInt(rec.Gestas))
	r.line(pdf, tr, "Partos", optInt(rec.Partos))
	r.line(pdf, tr, "Abortos", optInt(rec.Abortos))
	r.line(pdf, tr, "Cesáreas", optInt(rec.Cesareas))
	r.line(pdf, tr, "FUM", optDate(rec.FUM))
	r.line(pdf, tr, "Último Papanicolaou", exam.DisplayValue("last_pap_smear", rec.LastPapSmear))

	if len(rec.Pregnancies) > 0 {
		pdf.Ln(1)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, tr("Registro de embarazos"))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		for i, pg := range rec.Pregnancies {
			row := fmt.Sprintf("%d. Año: %s  Término: %s  Resolución: %s  Sexo: %s  Peso: %s  Evolución: %s  Alimentación: %s",
				i+1, fallback(pg.Year), fallback(pg.Term), fallback(pg.Resolution),
				fallback(pg.Sex), fallback(pg.Weight), fallback(pg.Evolution), fallback(pg.Feeding))
			pdf.Cell(0, 5, tr(row))
			pdf.Ln(5)
		}
	}

	pdf.Ln(1)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("ANTECEDENTES PERSONALES"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.line(pdf, tr, "Enfermedades", exam.DisplayValue("h_enfermedades", rec.HEnfermedades))
	r.line(pdf, tr, "Medicamentos", exam.DisplayValue("h_medicamentos", rec.HMedicamentos))
	r.line(pdf, tr, "Adicciones", exam.DisplayValue("h_adicciones", rec.HAdicciones))
	r.line(pdf, tr, "Alérgicos", exam.DisplayValue("h_alergicos", rec.HAlergicos))
	r.line(pdf, tr, "Transfusionales", exam.DisplayValue("h_transfusionales", rec.HTransfusionales))
	r.line(pdf, tr, "Quirúrgicos", exam.DisplayValue("h_quirurgicos", rec.HQuirurgicos))
	r.line(pdf, tr, "Grupo sanguíneo", exam.DisplayValue("h_grupo_sanguineo", rec.HGrupoSanguineo))
	r.line(pdf, tr, "No patológicos", exam.DisplayValue("h_no_patologicos", rec.HNoPatologicos))
	r.line(pdf, tr, "Familiares oncológicos", exam.DisplayValue("h_familiares_oncologicos", rec.HFamiliaresOncologicos))
	pdf.Ln(2)
}

func (r *Renderer) findingsBlock(pdf *gofpdf.Fpdf, tr func(string) string, rec *exam.Record) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("HALLAZGOS COLPOSCÓPICOS"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)

	r.line(pdf, tr, "Colposcopia", exam.DisplayValue("colposcopy_quality", rec.ColposcopyQuality))
	r.line(pdf, tr, "Cérvix", exam.DisplayValue("cervix_status", rec.CervixStatus))
	r.line(pdf, tr, "Zona de transformación", exam.DisplayValue("zone_transform", rec.ZoneTransform))
	r.line(pdf, tr, "Bordes", exam.DisplayValue("borders", rec.Borders))
	r.line(pdf, tr, "Superficie", exam.DisplayValue("surface", rec.Surface))
	r.line(pdf, tr, "Prueba de Schiller", exam.DisplayValue("schiller_test", rec.SchillerTest))
	r.line(pdf, tr, "Epitelio acetoblanco", exam.DisplayValue("acetowhite_epithelium", rec.AcetowhiteEpithelium))
	r.line(pdf, tr, "Vulva y vagina", exam.DisplayValue("vulva_vagina_desc", rec.VulvaVaginaDesc))
	pdf.Ln(2)
}

func (r *Renderer) imageGrid(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, rec *exam.Record) {
	paths := exam.NormalizeSlots(rec.ImagePaths)

	const (
		cellW  = 88.0
		cellH  = 62.0
		leftX  = 12.0
		rightX = 108.0
	)

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("IMÁGENES DEL ESTUDIO"))
	pdf.Ln(8)

	startY := pdf.GetY()
	for i, path := range paths {
		x := leftX
		if i%2 == 1 {
			x = rightX
		}
		y := startY + float64(i/2)*(cellH+12)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetXY(x, y)
		pdf.CellFormat(cellW, 5, tr(slotLabels[i]), "", 0, "C", false, 0, "")

		if path == "" {
			continue
		}
		r.placeImage(ctx, pdf, path, x, y+6, cellW, cellH)
	}
	pdf.SetY(startY + 2*(cellH+12) + 4)
}

// placeImage registers one slot image from disk or over HTTP. A slot that
// cannot be read is skipped; the report still renders.
func (r *Renderer) placeImage(ctx context.Context, pdf *gofpdf.Fpdf, path string, x, y, w, h float64) {
	data, err := r.fetchImage(ctx, path)
	if err != nil {
		r.log.Warn("skipping report image", zap.String("path", path), zap.Error(err))
		return
	}

	name := path
	opt := gofpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
}

func (r *Renderer) fetchImage(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "/static/") {
		return os.ReadFile(filepath.Join(r.uploadDir, filepath.Base(path)))
	}

	url := storage.DisplayURL(r.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) conclusionBlock(pdf *gofpdf.Fpdf, tr func(string) string, rec *exam.Record) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("DIAGNÓSTICO"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(exam.DisplayValue("diagnosis", rec.Diagnosis)), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, tr("OTRAS ALTERACIONES"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(exam.DisplayValue("others", rec.Others)), "", "L", false)
	pdf.Ln(2)

	if rec.Observations != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, tr("OBSERVACIONES"))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(rec.Observations), "", "L", false)
		pdf.Ln(2)
	}

	if rec.Plan != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, tr("PLAN"))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(rec.Plan), "", "L", false)
		pdf.Ln(2)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr("ATENTAMENTE"), "", 1, "C", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(0, 5, "____________________________", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, tr(r.cfg.DoctorName), "", 1, "C", false, 0, "")
}

func (r *Renderer) line(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(55, 5, tr(label+":"))
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(value), "", "L", false)
}

func fallback(v string) string {
	if v == "" {
		return exam.Placeholder
	}
	return v
}

func optInt(v *int) string {
	if v == nil {
		return exam.Placeholder
	}
	return fmt.Sprintf("%d", *v)
}

func optDate(d *exam.Date) string {
	if d == nil {
		return exam.Placeholder
	}
	return d.String()
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(strings.Split(path, "?")[0])) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	default:
		return "jpg"
	}
}
