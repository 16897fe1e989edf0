package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		stored string
		want   string
	}{
		{"stored value wins", "diagnosis", "LIE DE ALTO GRADO", "LIE DE ALTO GRADO"},
		{"absent diagnosis falls back to its sentinel", "diagnosis", "", "SIN ALTERACIONES"},
		{"absent others falls back", "others", "", "Ninguna"},
		{"absent vulva description falls back", "vulva_vagina_desc", "", "SE OBSERVAN DE MANERA NORMAL"},
		{"absent referrer falls back", "referred_by", "", ReferrerDefault},
		{"schiller has no default and renders the dash", "schiller_test", "", Placeholder},
		{"observations has no default and renders the dash", "observations", "", Placeholder},
		{"unknown field renders the dash", "nonexistent", "", Placeholder},
		{"history sentinel", "h_medicamentos", "", "NINGUNO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayValue(tt.field, tt.stored))
		})
	}
}

func TestFieldDescriptorAccepts(t *testing.T) {
	borders, ok := Lookup("borders")
	assert.True(t, ok)

	assert.True(t, borders.Accepts(""))
	assert.True(t, borders.Accepts("Definidos"))
	assert.True(t, borders.Accepts("No definidos"))
	assert.False(t, borders.Accepts("definidos"))
	assert.False(t, borders.Accepts("Borrosos"))

	obs, _ := Lookup("observations")
	assert.True(t, obs.Accepts("anything goes for free text"))
}
