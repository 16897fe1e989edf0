package exam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPregnancyRegistry(t *testing.T) {
	f := Template(NewDate(2026, time.January, 5), "")

	t.Run("append adds empty rows", func(t *testing.T) {
		f.AppendPregnancy()
		f.AppendPregnancy()
		require.Len(t, f.Pregnancies, 2)
		assert.Equal(t, PregnancyEntry{}, f.Pregnancies[0])
	})

	t.Run("update sets one column of one row", func(t *testing.T) {
		require.NoError(t, f.UpdatePregnancy(0, "year", "2018"))
		require.NoError(t, f.UpdatePregnancy(0, "resolution", "Cesárea"))
		require.NoError(t, f.UpdatePregnancy(1, "sex", "F"))

		assert.Equal(t, "2018", f.Pregnancies[0].Year)
		assert.Equal(t, "Cesárea", f.Pregnancies[0].Resolution)
		assert.Equal(t, "F", f.Pregnancies[1].Sex)
		assert.Empty(t, f.Pregnancies[1].Year)
	})

	t.Run("update rejects unknown column and bad index", func(t *testing.T) {
		assert.Error(t, f.UpdatePregnancy(0, "nope", "x"))
		assert.Error(t, f.UpdatePregnancy(5, "year", "2020"))
		assert.Error(t, f.UpdatePregnancy(-1, "year", "2020"))
	})

	t.Run("remove preserves order of the rest", func(t *testing.T) {
		f.AppendPregnancy()
		require.NoError(t, f.UpdatePregnancy(2, "year", "2024"))

		require.NoError(t, f.RemovePregnancy(0))
		require.Len(t, f.Pregnancies, 2)
		assert.Equal(t, "F", f.Pregnancies[0].Sex)
		assert.Equal(t, "2024", f.Pregnancies[1].Year)

		assert.Error(t, f.RemovePregnancy(2))
	})
}
