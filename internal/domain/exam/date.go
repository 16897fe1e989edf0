package exam

import (
	"github.com/colposcopia/colpo-api/internal/domain/patient"
)

// Date aliases the shared calendar-date type so study dates and patient
// birth dates marshal and store identically.
type Date = patient.Date

var (
	NewDate   = patient.NewDate
	ParseDate = patient.ParseDate
)
