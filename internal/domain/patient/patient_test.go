package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAge(t *testing.T) {
	asOf := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth Date
		want  int
	}{
		{"birthday already passed this year", NewDate(1990, time.March, 10), 36},
		{"birthday later this year", NewDate(1990, time.December, 1), 35},
		{"birthday today counts the completed year", NewDate(1990, time.August, 31), 36},
		{"birthday tomorrow does not", NewDate(1990, time.September, 1), 35},
		{"born this year", NewDate(2026, time.January, 2), 0},
		{"future birth date yields zero", NewDate(2030, time.January, 1), 0},
		{"zero birth date yields zero", Date{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveAge(tt.birth, asOf))
		})
	}
}

func TestDeriveAgeBirthdayBoundary(t *testing.T) {
	birth := NewDate(2000, time.June, 15)

	dayBefore := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 23, DeriveAge(birth, dayBefore))

	onBirthday := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, DeriveAge(birth, onBirthday))

	assert.Equal(t, 34, DeriveAge(NewDate(1990, time.January, 1),
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSexIsValid(t *testing.T) {
	assert.True(t, SexFemale.IsValid())
	assert.True(t, SexMale.IsValid())
	assert.False(t, Sex("femenino").IsValid())
	assert.False(t, Sex("").IsValid())
}
