package patients

import "time"

// Patient is the demographic record behind a patient principal.
type Patient struct {
	ID               int64
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           string
	BloodType        string
	ContactNumber    string
	Email            string
	Address          string
	EmergencyContact string
	InsuranceDetails string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProfileUpdate carries the fields a patient may change on their own record.
// Email and credentials are not among them; credential changes go through the
// auth module's isolated mutation point.
type ProfileUpdate struct {
	FirstName        string
	LastName         string
	ContactNumber    string
	Address          string
	EmergencyContact string
	InsuranceDetails string
}
