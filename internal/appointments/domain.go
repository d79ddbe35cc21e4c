package appointments

import "time"

// Appointment statuses.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Consultation modes.
const (
	ModeInPerson = "In-Person"
	ModeVideo    = "Video"
)

// Payment statuses.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

// Appointment ties a patient to a doctor at a point in time.
type Appointment struct {
	ID            int64
	PatientID     int64
	DoctorID      int64
	ScheduledAt   time.Time
	Mode          string
	Status        string
	PaymentStatus string
	Reason        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Display fields joined from the patient and doctor records.
	PatientName  string
	PatientEmail string
	DoctorName   string
}

// BookingRequest carries the fields a patient supplies when booking.
type BookingRequest struct {
	PatientID   int64
	DoctorID    int64
	ScheduledAt time.Time
	Mode        string
	Reason      string
}

// StatusUpdate is applied by the owning doctor.
type StatusUpdate struct {
	Status string
	Notes  string
}

// ValidStatus reports whether s is a recognised appointment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidMode reports whether m is a recognised consultation mode.
func ValidMode(m string) bool {
	return m == ModeInPerson || m == ModeVideo
}
