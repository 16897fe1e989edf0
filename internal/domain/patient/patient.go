package patient

import (
	"time"
)

type Sex string

const (
	SexFemale Sex = "Femenino"
	SexMale   Sex = "Masculino"
)

func (s Sex) IsValid() bool {
	return s == SexFemale || s == SexMale
}

type Patient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Name      string `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	BirthDate Date   `gorm:"column:birth_date;type:date" json:"birth_date"`
	Sex       Sex    `gorm:"column:sex;type:varchar(20);default:'Femenino'" json:"sex"`
	Phone     string `gorm:"column:phone;type:varchar(30)" json:"phone"`
	Email     string `gorm:"column:email;type:varchar(255)" json:"email"`

	// Referrer seeds the referred_by field of every new study for this
	// patient.
	Referrer string `gorm:"column:referrer;type:varchar(255)" json:"referrer"`

	AdditionalData string `gorm:"column:additional_data;type:text" json:"additional_data"`
}

func (Patient) TableName() string {
	return "patients"
}

// Age returns the patient's age in completed years as of now.
func (p *Patient) Age() int {
	return DeriveAge(p.BirthDate, time.Now())
}

// DeriveAge computes completed years between a birth date and a reference
// instant. A birth date in the future, or a zero birth date, yields 0.
func DeriveAge(birth Date, asOf time.Time) int {
	if birth.IsZero() {
		return 0
	}
	years := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() ||
		(asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

type CreatePatientCommand struct {
	Name           string
	BirthDate      Date
	Sex            Sex
	Phone          string
	Email          string
	Referrer       string
	AdditionalData string
}

type UpdatePatientCommand struct {
	Name           *string
	BirthDate      *Date
	Sex            *Sex
	Phone          *string
	Email          *string
	Referrer       *string
	AdditionalData *string
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search   string // substring match on name
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
