package prescriptions

import "time"

// Prescription is issued by a doctor for a patient, optionally tied to an
// appointment.
type Prescription struct {
	ID             int64
	PatientID      int64
	DoctorID       int64
	AppointmentID  int64
	MedicationName string
	Dosage         string
	Frequency      string
	Duration       string
	Instructions   string
	CreatedAt      time.Time

	// Display names joined from the patient and doctor records.
	PatientName string
	DoctorName  string
}

// Draft carries the fields a doctor supplies when prescribing.
type Draft struct {
	PatientID      int64
	DoctorID       int64
	AppointmentID  int64
	MedicationName string
	Dosage         string
	Frequency      string
	Duration       string
	Instructions   string
}
