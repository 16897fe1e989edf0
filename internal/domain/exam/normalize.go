package exam

import (
	"fmt"
	"strconv"
)

// FormState is the human-editable representation of a study. Every scalar is
// a string: an optional numeric or date field holds "" when unset, so that a
// stored zero round-trips as "0" and never collapses into "absent".
type FormState struct {
	StudyDate  string `json:"study_date"`
	ReferredBy string `json:"referred_by"`

	VulvaVaginaDesc string `json:"vulva_vagina_desc"`
	Observations    string `json:"observations"`
	Diagnosis       string `json:"diagnosis"`
	Others          string `json:"others"`
	Plan            string `json:"plan"`

	ColposcopyQuality    string `json:"colposcopy_quality"`
	CervixStatus         string `json:"cervix_status"`
	ZoneTransform        string `json:"zone_transform"`
	Borders              string `json:"borders"`
	Surface              string `json:"surface"`
	SchillerTest         string `json:"schiller_test"`
	AcetowhiteEpithelium string `json:"acetowhite_epithelium"`

	MenarcheAge         string `json:"menarche_age"`
	MenstrualRhythm     string `json:"menstrual_rhythm"`
	ContraceptiveMethod string `json:"contraceptive_method"`
	IVSAAge             string `json:"ivsa_age"`
	Gestas              string `json:"gestas"`
	Partos              string `json:"partos"`
	Abortos             string `json:"abortos"`
	Cesareas            string `json:"cesareas"`
	FUM                 string `json:"fum"`
	LastPapSmear        string `json:"last_pap_smear"`

	ImagePaths []string `json:"image_paths"`

	HEnfermedades          string `json:"h_enfermedades"`
	HMedicamentos          string `json:"h_medicamentos"`
	HAdicciones            string `json:"h_adicciones"`
	HAlergicos             string `json:"h_alergicos"`
	HTransfusionales       string `json:"h_transfusionales"`
	HQuirurgicos           string `json:"h_quirurgicos"`
	HGrupoSanguineo        string `json:"h_grupo_sanguineo"`
	HNoPatologicos         string `json:"h_no_patologicos"`
	HFamiliaresOncologicos string `json:"h_familiares_oncologicos"`

	Pregnancies []PregnancyEntry `json:"pregnancies"`
}

// formFields maps a descriptor name to its scalar slot, so the template and
// any merge-by-name update go through the same typed record instead of an
// untyped bag of fields.
var formFields = map[string]func(*FormState) *string{
	"study_date":  func(f *FormState) *string { return &f.StudyDate },
	"referred_by": func(f *FormState) *string { return &f.ReferredBy },

	"vulva_vagina_desc": func(f *FormState) *string { return &f.VulvaVaginaDesc },
	"observations":      func(f *FormState) *string { return &f.Observations },
	"diagnosis":         func(f *FormState) *string { return &f.Diagnosis },
	"others":            func(f *FormState) *string { return &f.Others },
	"plan":              func(f *FormState) *string { return &f.Plan },

	"colposcopy_quality":    func(f *FormState) *string { return &f.ColposcopyQuality },
	"cervix_status":         func(f *FormState) *string { return &f.CervixStatus },
	"zone_transform":        func(f *FormState) *string { return &f.ZoneTransform },
	"borders":               func(f *FormState) *string { return &f.Borders },
	"surface":               func(f *FormState) *string { return &f.Surface },
	"schiller_test":         func(f *FormState) *string { return &f.SchillerTest },
	"acetowhite_epithelium": func(f *FormState) *string { return &f.AcetowhiteEpithelium },

	"menarche_age":         func(f *FormState) *string { return &f.MenarcheAge },
	"menstrual_rhythm":     func(f *FormState) *string { return &f.MenstrualRhythm },
	"contraceptive_method": func(f *FormState) *string { return &f.ContraceptiveMethod },
	"ivsa_age":             func(f *FormState) *string { return &f.IVSAAge },
	"gestas":               func(f *FormState) *string { return &f.Gestas },
	"partos":               func(f *FormState) *string { return &f.Partos },
	"abortos":              func(f *FormState) *string { return &f.Abortos },
	"cesareas":             func(f *FormState) *string { return &f.Cesareas },
	"fum":                  func(f *FormState) *string { return &f.FUM },
	"last_pap_smear":       func(f *FormState) *string { return &f.LastPapSmear },

	"h_enfermedades":           func(f *FormState) *string { return &f.HEnfermedades },
	"h_medicamentos":           func(f *FormState) *string { return &f.HMedicamentos },
	"h_adicciones":             func(f *FormState) *string { return &f.HAdicciones },
	"h_alergicos":              func(f *FormState) *string { return &f.HAlergicos },
	"h_transfusionales":        func(f *FormState) *string { return &f.HTransfusionales },
	"h_quirurgicos":            func(f *FormState) *string { return &f.HQuirurgicos },
	"h_grupo_sanguineo":        func(f *FormState) *string { return &f.HGrupoSanguineo },
	"h_no_patologicos":         func(f *FormState) *string { return &f.HNoPatologicos },
	"h_familiares_oncologicos": func(f *FormState) *string { return &f.HFamiliaresOncologicos },
}

// Get returns the current value of a named scalar field, or "" for an
// unknown name.
func (f *FormState) Get(name string) string {
	if acc, ok := formFields[name]; ok {
		return *acc(f)
	}
	return ""
}

// Set replaces one named scalar field, leaving the rest of the state
// untouched. Unknown names are rejected rather than silently absorbed.
func (f *FormState) Set(name, value string) error {
	acc, ok := formFields[name]
	if !ok {
		return fmt.Errorf("unknown exam field %q", name)
	}
	*acc(f) = value
	return nil
}

// Template returns a blank form pre-seeded with each field's default
// sentinel, the given study date, and the owning patient's referrer. An
// empty referrer falls back to the GENERICO sentinel.
func Template(studyDate Date, referrer string) *FormState {
	f := &FormState{
		ImagePaths:  make([]string, ImageSlots),
		Pregnancies: []PregnancyEntry{},
	}
	for _, d := range Fields {
		if d.Default != "" {
			*formFields[d.Name](f) = d.Default
		}
	}
	f.StudyDate = studyDate.String()
	if referrer != "" {
		f.ReferredBy = referrer
	}
	return f
}

// Hydrate converts a persisted record into its editable representation.
// It is total: nulls become empty values, a stored zero becomes "0", and
// missing or malformed image slots degrade to empty placeholders rather
// than failing the load.
func Hydrate(r *Record) *FormState {
	f := &FormState{
		StudyDate:  r.StudyDate.String(),
		ReferredBy: r.ReferredBy,

		VulvaVaginaDesc: r.VulvaVaginaDesc,
		Observations:    r.Observations,
		Diagnosis:       r.Diagnosis,
		Others:          r.Others,
		Plan:            r.Plan,

		ColposcopyQuality:    r.ColposcopyQuality,
		CervixStatus:         r.CervixStatus,
		ZoneTransform:        r.ZoneTransform,
		Borders:              r.Borders,
		Surface:              r.Surface,
		SchillerTest:         r.SchillerTest,
		AcetowhiteEpithelium: r.AcetowhiteEpithelium,

		MenarcheAge:         intField(r.MenarcheAge),
		MenstrualRhythm:     r.MenstrualRhythm,
		ContraceptiveMethod: r.ContraceptiveMethod,
		IVSAAge:             intField(r.IVSAAge),
		Gestas:              intField(r.Gestas),
		Partos:              intField(r.Partos),
		Abortos:             intField(r.Abortos),
		Cesareas:            intField(r.Cesareas),
		FUM:                 dateField(r.FUM),
		LastPapSmear:        r.LastPapSmear,

		ImagePaths: NormalizeSlots(r.ImagePaths),

		HEnfermedades:          r.HEnfermedades,
		HMedicamentos:          r.HMedicamentos,
		HAdicciones:            r.HAdicciones,
		HAlergicos:             r.HAlergicos,
		HTransfusionales:       r.HTransfusionales,
		HQuirurgicos:           r.HQuirurgicos,
		HGrupoSanguineo:        r.HGrupoSanguineo,
		HNoPatologicos:         r.HNoPatologicos,
		HFamiliaresOncologicos: r.HFamiliaresOncologicos,

		Pregnancies: append([]PregnancyEntry{}, r.Pregnancies...),
	}
	return f
}

// Sanitize converts form state into a persistable record owned by patientID.
// Empty optional values become nil; a non-empty value that fails to parse is
// a field-level validation error, never silently coerced. Enumerated values
// outside their vocabulary are rejected rather than corrected. Sanitize is a
// pure function of its input.
func Sanitize(f *FormState, patientID uint) (*Record, error) {
	var ve ValidationError

	if patientID == 0 {
		ve.add("patient_id is required")
	}

	studyDate, err := ParseDate(f.StudyDate)
	if err != nil {
		ve.add("study_date: must be a valid calendar date")
	}

	fum := optionalDate("fum", f.FUM, &ve)

	r := &Record{
		PatientID: patientID,
		StudyDate: studyDate,

		ReferredBy: f.ReferredBy,

		VulvaVaginaDesc: f.VulvaVaginaDesc,
		Observations:    f.Observations,
		Diagnosis:       f.Diagnosis,
		Others:          f.Others,
		Plan:            f.Plan,

		ColposcopyQuality:    f.ColposcopyQuality,
		CervixStatus:         f.CervixStatus,
		ZoneTransform:        f.ZoneTransform,
		Borders:              f.Borders,
		Surface:              f.Surface,
		SchillerTest:         f.SchillerTest,
		AcetowhiteEpithelium: f.AcetowhiteEpithelium,

		MenarcheAge:         optionalInt("menarche_age", f.MenarcheAge, &ve),
		MenstrualRhythm:     f.MenstrualRhythm,
		ContraceptiveMethod: f.ContraceptiveMethod,
		IVSAAge:             optionalInt("ivsa_age", f.IVSAAge, &ve),
		Gestas:              optionalInt("gestas", f.Gestas, &ve),
		Partos:              optionalInt("partos", f.Partos, &ve),
		Abortos:             optionalInt("abortos", f.Abortos, &ve),
		Cesareas:            optionalInt("cesareas", f.Cesareas, &ve),
		FUM:                 fum,
		LastPapSmear:        f.LastPapSmear,

		ImagePaths: NormalizeSlots(f.ImagePaths),

		HEnfermedades:          f.HEnfermedades,
		HMedicamentos:          f.HMedicamentos,
		HAdicciones:            f.HAdicciones,
		HAlergicos:             f.HAlergicos,
		HTransfusionales:       f.HTransfusionales,
		HQuirurgicos:           f.HQuirurgicos,
		HGrupoSanguineo:        f.HGrupoSanguineo,
		HNoPatologicos:         f.HNoPatologicos,
		HFamiliaresOncologicos: f.HFamiliaresOncologicos,

		Pregnancies: append([]PregnancyEntry{}, f.Pregnancies...),
	}

	for _, d := range Fields {
		if d.Kind != KindEnum {
			continue
		}
		if v := f.Get(d.Name); !d.Accepts(v) {
			ve.add(fmt.Sprintf("%s: %q is not in the allowed vocabulary", d.Name, v))
		}
	}

	if len(ve.Fields) > 0 {
		return nil, &ve
	}
	return r, nil
}

// NormalizeSlots pads or truncates an image path slice to exactly ImageSlots
// entries. A nil or malformed slice yields four empty placeholders.
func NormalizeSlots(paths []string) []string {
	out := make([]string, ImageSlots)
	copy(out, paths)
	return out
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateField(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optionalInt(name, v string, ve *ValidationError) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		ve.add(name + ": malformed numeric field")
		return nil
	}
	if n < 0 {
		ve.add(name + ": must be a non-negative integer")
		return nil
	}
	return &n
}

func optionalDate(name, v string, ve *ValidationError) *Date {
	if v == "" {
		return nil
	}
	d, err := ParseDate(v)
	if err != nil {
		ve.add(name + ": must be a valid calendar date")
		return nil
	}
	return &d
}
