package feedback

import "time"

// Entry is feedback a patient leaves about their care, optionally with a
// recorded video stored under the video category.
type Entry struct {
	ID        int64
	PatientID int64
	Rating    int
	Comments  string
	VideoKey  string
	CreatedAt time.Time

	PatientName string
}

// Draft carries the fields a patient supplies when leaving feedback.
type Draft struct {
	PatientID int64
	Rating    int
	Comments  string
	VideoKey  string
}
