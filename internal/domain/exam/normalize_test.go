package exam

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validForm() *FormState {
	f := Template(NewDate(2026, time.March, 10), "DRA. LOPEZ")
	return f
}

func TestTemplate(t *testing.T) {
	t.Run("seeds defaults, study date and referrer", func(t *testing.T) {
		f := Template(NewDate(2026, time.March, 10), "DRA. LOPEZ")

		assert.Equal(t, "2026-03-10", f.StudyDate)
		assert.Equal(t, "DRA. LOPEZ", f.ReferredBy)
		assert.Equal(t, "Adecuada", f.ColposcopyQuality)
		assert.Equal(t, "SIN ALTERACIONES", f.Diagnosis)
		assert.Equal(t, "Ninguna", f.Others)
		assert.Equal(t, "NINGUNA", f.HEnfermedades)
		assert.Len(t, f.ImagePaths, ImageSlots)
	})

	t.Run("empty referrer falls back to generic sentinel", func(t *testing.T) {
		f := Template(NewDate(2026, time.March, 10), "")
		assert.Equal(t, ReferrerDefault, f.ReferredBy)
	})

	t.Run("fields with no default stay empty", func(t *testing.T) {
		f := Template(NewDate(2026, time.March, 10), "")
		assert.Empty(t, f.SchillerTest)
		assert.Empty(t, f.Observations)
		assert.Empty(t, f.MenarcheAge)
	})
}

func TestSanitize(t *testing.T) {
	t.Run("valid form produces a record owned by the patient", func(t *testing.T) {
		f := validForm()
		f.Gestas = "3"
		f.MenarcheAge = "12"
		f.FUM = "2026-02-20"

		r, err := Sanitize(f, 7)
		require.NoError(t, err)

		assert.Equal(t, uint(7), r.PatientID)
		assert.Equal(t, "2026-03-10", r.StudyDate.String())
		require.NotNil(t, r.Gestas)
		assert.Equal(t, 3, *r.Gestas)
		require.NotNil(t, r.FUM)
		assert.Equal(t, "2026-02-20", r.FUM.String())
	})

	t.Run("empty numeric fields become nil, zero stays zero", func(t *testing.T) {
		f := validForm()
		f.Partos = ""
		f.Abortos = "0"

		r, err := Sanitize(f, 1)
		require.NoError(t, err)

		assert.Nil(t, r.Partos)
		require.NotNil(t, r.Abortos)
		assert.Equal(t, 0, *r.Abortos)
	})

	t.Run("malformed numeric is a field error, not a coercion", func(t *testing.T) {
		f := validForm()
		f.Gestas = "abc"

		_, err := Sanitize(f, 1)
		require.Error(t, err)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Len(t, ve.Fields, 1)
		assert.Contains(t, ve.Fields[0], "gestas")
	})

	t.Run("negative numeric is rejected", func(t *testing.T) {
		f := validForm()
		f.Cesareas = "-1"

		_, err := Sanitize(f, 1)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields[0], "cesareas")
	})

	t.Run("out of vocabulary enum is rejected", func(t *testing.T) {
		f := validForm()
		f.SchillerTest = "Tal vez"

		_, err := Sanitize(f, 1)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields[0], "schiller_test")
	})

	t.Run("missing study date is an error", func(t *testing.T) {
		f := validForm()
		f.StudyDate = ""

		_, err := Sanitize(f, 1)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields[0], "study_date")
	})

	t.Run("missing patient is an error", func(t *testing.T) {
		f := validForm()

		_, err := Sanitize(f, 0)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Contains(t, ve.Fields[0], "patient_id")
	})

	t.Run("collects every problem in one pass", func(t *testing.T) {
		f := validForm()
		f.StudyDate = "not-a-date"
		f.Gestas = "x"
		f.Borders = "Difusos"

		_, err := Sanitize(f, 1)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Len(t, ve.Fields, 3)
	})

	t.Run("image slots are padded to four", func(t *testing.T) {
		f := validForm()
		f.ImagePaths = []string{"/static/a.jpg"}

		r, err := Sanitize(f, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"/static/a.jpg", "", "", ""}, r.ImagePaths)
	})

	t.Run("excess image slots are truncated", func(t *testing.T) {
		f := validForm()
		f.ImagePaths = []string{"a", "b", "c", "d", "e"}

		r, err := Sanitize(f, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, r.ImagePaths)
	})
}

func TestHydrate(t *testing.T) {
	t.Run("null and zero survive the round trip distinctly", func(t *testing.T) {
		r := &Record{
			PatientID:  3,
			StudyDate:  NewDate(2025, time.June, 2),
			Gestas:     intPtr(0),
			Partos:     nil,
			ImagePaths: []string{"/static/x.png", "", "", ""},
		}

		f := Hydrate(r)
		assert.Equal(t, "0", f.Gestas)
		assert.Equal(t, "", f.Partos)
		assert.Equal(t, "2025-06-02", f.StudyDate)
	})

	t.Run("nil image paths hydrate to four empty slots", func(t *testing.T) {
		f := Hydrate(&Record{StudyDate: NewDate(2025, time.June, 2)})
		assert.Equal(t, []string{"", "", "", ""}, f.ImagePaths)
	})

	t.Run("sanitize then hydrate is lossless", func(t *testing.T) {
		f := validForm()
		f.Gestas = "2"
		f.FUM = "2026-01-15"
		f.ImagePaths = []string{"/static/a.jpg", "", "/static/c.jpg", ""}
		f.Pregnancies = []PregnancyEntry{{Year: "2019", Resolution: "Parto"}}

		r, err := Sanitize(f, 5)
		require.NoError(t, err)

		got := Hydrate(r)
		assert.Equal(t, f.StudyDate, got.StudyDate)
		assert.Equal(t, f.Gestas, got.Gestas)
		assert.Equal(t, f.FUM, got.FUM)
		assert.Equal(t, f.ImagePaths, got.ImagePaths)
		assert.Equal(t, f.Pregnancies, got.Pregnancies)
		assert.Equal(t, f.Diagnosis, got.Diagnosis)
	})
}

func TestFormStateAccessors(t *testing.T) {
	f := validForm()

	require.NoError(t, f.Set("diagnosis", "LIE DE BAJO GRADO"))
	assert.Equal(t, "LIE DE BAJO GRADO", f.Get("diagnosis"))
	assert.Equal(t, "LIE DE BAJO GRADO", f.Diagnosis)

	assert.Error(t, f.Set("no_such_field", "x"))
	assert.Empty(t, f.Get("no_such_field"))
}
