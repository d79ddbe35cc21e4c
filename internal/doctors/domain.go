package doctors

import "time"

// Availability statuses a doctor can advertise.
const (
	StatusAvailable   = "Available"
	StatusUnavailable = "Unavailable"
	StatusOnLeave     = "On Leave"
)

// Doctor is the professional record behind a doctor principal.
type Doctor struct {
	ID                 int64
	FirstName          string
	LastName           string
	Specialization     string
	ExperienceYears    int
	ContactNumber      string
	Email              string
	ConsultationFees   float64
	AvailabilityStatus string
	ClinicHospitalName string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DirectoryFilter narrows the patient-facing doctor directory.
type DirectoryFilter struct {
	Specialization string
	Page           int
	PerPage        int
}

// ValidStatus reports whether s is a recognised availability status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusOnLeave:
		return true
	}
	return false
}
