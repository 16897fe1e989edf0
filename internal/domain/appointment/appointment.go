package appointment

import (
	"time"

	"github.com/colposcopia/colpo-api/internal/domain/patient"
)

type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusConfirmed Status = "Confirmada"
	StatusCancelled Status = "Cancelada"
	StatusAttended  Status = "Atendida"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusAttended:
		return true
	}
	return false
}

// Bucket partitions the agenda relative to a reference instant.
type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
	BucketPast     Bucket = "past"
)

type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	PatientID uint      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DateTime  time.Time `gorm:"column:date_time;not null;index" json:"date_time"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	Status    Status    `gorm:"column:status;type:varchar(30);not null;default:'Pendiente'" json:"status"`

	Patient *patient.Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Classify places an appointment into its agenda bucket. Today means the
// same calendar day and strictly after the reference instant; an earlier
// same-day slot already belongs to the past. Upcoming is any later calendar
// day.
func Classify(at, asOf time.Time) Bucket {
	y1, m1, d1 := at.Date()
	y2, m2, d2 := asOf.Date()
	sameDay := y1 == y2 && m1 == m2 && d1 == d2
	if sameDay && at.After(asOf) {
		return BucketToday
	}
	if at.After(asOf) {
		return BucketUpcoming
	}
	return BucketPast
}

type CreateAppointmentCommand struct {
	PatientID uint
	DateTime  time.Time
	Reason    string
	Status    Status
}

type UpdateAppointmentCommand struct {
	DateTime *time.Time
	Reason   *string
	Status   *Status
}

type ListAppointmentsQuery struct {
	PatientID *uint
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Agenda groups a clinic's appointments into buckets, each sorted by slot
// time ascending.
type Agenda struct {
	Today    []*Appointment `json:"today"`
	Upcoming []*Appointment `json:"upcoming"`
	Past     []*Appointment `json:"past"`
}
