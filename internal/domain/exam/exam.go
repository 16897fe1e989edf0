package exam

import (
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/patient"
)

// ImageSlots is the fixed number of image positions in a study. Slot order
// carries meaning at render time (normal view, acetic acid, Lugol, other);
// absent images are empty strings, never a shorter slice.
const ImageSlots = 4

// ReferrerDefault is the sentinel stored when no referring physician is named.
const ReferrerDefault = "GENERICO"

// Record is the persisted shape of one colposcopy study. Optional numeric and
// date fields are pointers: nil means the clinician left the field blank,
// which is distinct from an explicit zero.
type Record struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	PatientID uint `gorm:"column:patient_id;not null;index" json:"patient_id"`
	StudyDate Date `gorm:"column:study_date;type:date;not null" json:"study_date"`

	ReferredBy string `gorm:"column:referred_by;type:varchar(255)" json:"referred_by"`

	// Narrative findings
	VulvaVaginaDesc string `gorm:"column:vulva_vagina_desc;type:text" json:"vulva_vagina_desc"`
	Observations    string `gorm:"column:observations;type:text" json:"observations"`
	Diagnosis       string `gorm:"column:diagnosis;type:text" json:"diagnosis"`
	Others          string `gorm:"column:others;type:text" json:"others"`
	Plan            string `gorm:"column:plan;type:text" json:"plan"`

	// Closed-vocabulary findings (see vocab.go)
	ColposcopyQuality    string `gorm:"column:colposcopy_quality;type:varchar(50)" json:"colposcopy_quality"`
	CervixStatus         string `gorm:"column:cervix_status;type:varchar(50)" json:"cervix_status"`
	ZoneTransform        string `gorm:"column:zone_transform;type:varchar(50)" json:"zone_transform"`
	Borders              string `gorm:"column:borders;type:varchar(50)" json:"borders"`
	Surface              string `gorm:"column:surface;type:varchar(50)" json:"surface"`
	SchillerTest         string `gorm:"column:schiller_test;type:varchar(50)" json:"schiller_test"`
	AcetowhiteEpithelium string `gorm:"column:acetowhite_epithelium;type:varchar(50)" json:"acetowhite_epithelium"`

	// Gyneco-obstetric snapshot
	MenarcheAge         *int    `gorm:"column:menarche_age" json:"menarche_age"`
	MenstrualRhythm     string  `gorm:"column:menstrual_rhythm;type:varchar(50)" json:"menstrual_rhythm"`
	ContraceptiveMethod string  `gorm:"column:contraceptive_method;type:varchar(100)" json:"contraceptive_method"`
	IVSAAge             *int    `gorm:"column:ivsa_age" json:"ivsa_age"`
	Gestas              *int    `gorm:"column:gestas" json:"gestas"`
	Partos              *int    `gorm:"column:partos" json:"partos"`
	Abortos             *int    `gorm:"column:abortos" json:"abortos"`
	Cesareas            *int    `gorm:"column:cesareas" json:"cesareas"`
	FUM                 *Date   `gorm:"column:fum;type:date" json:"fum"`
	LastPapSmear        string  `gorm:"column:last_pap_smear;type:varchar(100)" json:"last_pap_smear"`

	ImagePaths []string `gorm:"column:image_paths;serializer:json" json:"image_paths"`

	// Extended clinical history
	HEnfermedades          string `gorm:"column:h_enfermedades;type:varchar(255)" json:"h_enfermedades"`
	HMedicamentos          string `gorm:"column:h_medicamentos;type:varchar(255)" json:"h_medicamentos"`
	HAdicciones            string `gorm:"column:h_adicciones;type:varchar(255)" json:"h_adicciones"`
	HAlergicos             string `gorm:"column:h_alergicos;type:varchar(255)" json:"h_alergicos"`
	HTransfusionales       string `gorm:"column:h_transfusionales;type:varchar(255)" json:"h_transfusionales"`
	HQuirurgicos           string `gorm:"column:h_quirurgicos;type:varchar(255)" json:"h_quirurgicos"`
	HGrupoSanguineo        string `gorm:"column:h_grupo_sanguineo;type:varchar(10)" json:"h_grupo_sanguineo"`
	HNoPatologicos         string `gorm:"column:h_no_patologicos;type:text" json:"h_no_patologicos"`
	HFamiliaresOncologicos string `gorm:"column:h_familiares_oncologicos;type:text" json:"h_familiares_oncologicos"`

	Pregnancies []PregnancyEntry `gorm:"column:pregnancies;serializer:json" json:"pregnancies"`

	Patient *patient.Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Record) TableName() string {
	return "colposcopy_exams"
}

// PregnancyEntry is one row of the prior-pregnancy registry. Cells hold
// arbitrary clinician text; no plausibility checks are applied here.
type PregnancyEntry struct {
	Year       string `json:"year"`
	Term       string `json:"term"`
	Resolution string `json:"resolution"`
	Sex        string `json:"sex"`
	Weight     string `json:"weight"`
	Evolution  string `json:"evolution"`
	Feeding    string `json:"feeding"`
}

type ListByPatientQuery struct {
	PatientID uint
	Skip      int
	Limit     int
}
