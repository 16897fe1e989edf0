package exam

// The create, edit and report surfaces historically carried their own copies
// of these vocabularies and drifted apart. This table is the single source
// all three read from.

type FieldKind int

const (
	KindText FieldKind = iota
	KindEnum
	KindNumber
	KindDate
)

// Placeholder is rendered for an absent value with no documented default.
const Placeholder = "-"

// FieldDescriptor describes one exam field: its wire name, value kind, the
// sentinel substituted for an absent value, and the closed vocabulary for
// enumerated fields. An empty Default means the field has no safe fallback
// and renders the placeholder dash.
type FieldDescriptor struct {
	Name    string
	Kind    FieldKind
	Default string
	Allowed []string
}

// Accepts reports whether v is storable for this field. Absent is always
// storable; enumerated fields additionally require vocabulary membership.
func (d FieldDescriptor) Accepts(v string) bool {
	if v == "" || d.Kind != KindEnum {
		return true
	}
	for _, a := range d.Allowed {
		if a == v {
			return true
		}
	}
	return false
}

var Fields = []FieldDescriptor{
	{Name: "study_date", Kind: KindDate},
	{Name: "referred_by", Kind: KindText, Default: ReferrerDefault},

	{Name: "vulva_vagina_desc", Kind: KindText, Default: "SE OBSERVAN DE MANERA NORMAL"},
	{Name: "observations", Kind: KindText},
	{Name: "others", Kind: KindText, Default: "Ninguna"},
	{Name: "plan", Kind: KindText},

	{Name: "colposcopy_quality", Kind: KindEnum, Default: "Adecuada",
		Allowed: []string{"Adecuada", "No Adecuada"}},
	{Name: "cervix_status", Kind: KindEnum, Default: "EUTRÓFICO",
		Allowed: []string{"EUTRÓFICO", "ATRÓFICO", "HIPERTRÓFICO", "HIPOTRÓFICO"}},
	{Name: "zone_transform", Kind: KindEnum, Default: "Normal",
		Allowed: []string{"Normal", "ANORMAL", "TIPO 1", "TIPO 2", "TIPO 3", "PEQUEÑA", "INTERMEDIA", "AMPLIA"}},
	{Name: "borders", Kind: KindEnum, Default: "Definidos",
		Allowed: []string{"Definidos", "No definidos"}},
	{Name: "surface", Kind: KindEnum, Default: "LISA",
		Allowed: []string{"LISA", "MICROPAPILAR", "PUNTILLERO FINO", "PUNTILLERO GRUESO", "MOSAICO FINO", "MOSAICO GRUESO"}},
	// No iodine result can be assumed; absent renders the placeholder.
	{Name: "schiller_test", Kind: KindEnum,
		Allowed: []string{"Negativo", "Positivo"}},
	{Name: "acetowhite_epithelium", Kind: KindEnum, Default: "Ausente",
		Allowed: []string{"Ausente", "Presente"}},
	{Name: "diagnosis", Kind: KindEnum, Default: "SIN ALTERACIONES",
		Allowed: []string{
			"SIN ALTERACIONES",
			"ALTERACIONES INFLAMATORIAS",
			"IVPH",
			"NIC",
			"NEOPLASIA INVASORA",
			"LESIONES SUGESTIVAS DE INVASIÓN",
			"LESION INTRAEPITELIAL DE BAJO GRADO (LIBG)",
			"LESION INTRAEPITELIAL DE ALTO GRADO (LIAG)",
		}},

	{Name: "menarche_age", Kind: KindNumber},
	{Name: "menstrual_rhythm", Kind: KindText},
	{Name: "contraceptive_method", Kind: KindText},
	{Name: "ivsa_age", Kind: KindNumber},
	{Name: "gestas", Kind: KindNumber},
	{Name: "partos", Kind: KindNumber},
	{Name: "abortos", Kind: KindNumber},
	{Name: "cesareas", Kind: KindNumber},
	{Name: "fum", Kind: KindDate},
	{Name: "last_pap_smear", Kind: KindText},

	{Name: "h_enfermedades", Kind: KindText, Default: "NINGUNA"},
	{Name: "h_medicamentos", Kind: KindText, Default: "NINGUNO"},
	{Name: "h_adicciones", Kind: KindText, Default: "NINGUNA"},
	{Name: "h_alergicos", Kind: KindText, Default: "NINGUNO"},
	{Name: "h_transfusionales", Kind: KindText, Default: "NINGUNO"},
	{Name: "h_quirurgicos", Kind: KindText, Default: "NINGUNO"},
	{Name: "h_grupo_sanguineo", Kind: KindEnum,
		Allowed: []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}},
	{Name: "h_no_patologicos", Kind: KindText},
	{Name: "h_familiares_oncologicos", Kind: KindText, Default: "NINGUNO"},
}

var fieldsByName = func() map[string]FieldDescriptor {
	m := make(map[string]FieldDescriptor, len(Fields))
	for _, d := range Fields {
		m[d.Name] = d
	}
	return m
}()

func Lookup(name string) (FieldDescriptor, bool) {
	d, ok := fieldsByName[name]
	return d, ok
}

// DisplayValue resolves what both the edit form and the printed report show
// for a field: the stored value when present, otherwise the field's default
// sentinel, otherwise the placeholder dash. Substitution applies only to
// absent data; invalid data never reaches this point (Sanitize rejects it).
func DisplayValue(field, stored string) string {
	if stored != "" {
		return stored
	}
	if d, ok := fieldsByName[field]; ok && d.Default != "" {
		return d.Default
	}
	return Placeholder
}
