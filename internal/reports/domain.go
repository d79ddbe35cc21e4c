package reports

import "time"

// Report is a clinical document (lab result, scan summary, discharge note)
// a doctor files for a patient. The attachment, when present, lives in the
// storage backend under the document category.
type Report struct {
	ID          int64
	PatientID   int64
	DoctorID    int64
	Title       string
	ReportType  string
	Description string
	FileKey     string
	CreatedAt   time.Time

	// Display names joined from the patient and doctor records.
	PatientName string
	DoctorName  string
}

// Draft carries the fields a doctor supplies when filing a report.
type Draft struct {
	PatientID   int64
	DoctorID    int64
	Title       string
	ReportType  string
	Description string
	FileKey     string
}
