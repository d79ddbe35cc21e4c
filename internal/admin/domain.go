package admin

import "time"

// Statistics is the platform overview shown on the admin dashboard.
type Statistics struct {
	Patients     int            `json:"patients"`
	Doctors      int            `json:"doctors"`
	Appointments int            `json:"appointments"`
	Feedback     int            `json:"feedback"`
	ByStatus     map[string]int `json:"appointments_by_status"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// PatientSummary is the admin-facing view of a patient account.
type PatientSummary struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	CreatedAt     time.Time
}

// DoctorSummary is the admin-facing view of a doctor account.
type DoctorSummary struct {
	ID                 int64
	FirstName          string
	LastName           string
	Email              string
	Specialization     string
	AvailabilityStatus string
	CreatedAt          time.Time
}

// AppointmentSummary is the admin-facing view of an appointment.
type AppointmentSummary struct {
	ID          int64
	PatientName string
	DoctorName  string
	ScheduledAt time.Time
	Mode        string
	Status      string
}
