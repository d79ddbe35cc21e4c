package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/medicore/medicore/jobs"
)

// Notifier delivers booking notifications through the job queue.
// *jobs.Client satisfies it.
type Notifier interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
	EnqueueAppointmentReminder(ctx context.Context, payload jobs.AppointmentReminderPayload, processAt time.Time) (*asynq.TaskInfo, error)
}

// Service exposes booking and schedule operations.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a Service. notifier may be nil when no queue is
// configured.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Book creates an appointment, emails a booking confirmation and schedules
// a reminder a day ahead of the visit. Notification delivery is best effort
// and never fails the booking.
func (s *Service) Book(ctx context.Context, booking BookingRequest) (*Appointment, error) {
	appt, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_, err := s.notifier.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
			To:      appt.PatientEmail,
			Subject: "Appointment confirmed",
			Body: fmt.Sprintf("Your appointment with Dr. %s is confirmed for %s.",
				appt.DoctorName, appt.ScheduledAt.Format(time.RFC1123)),
		})
		if err != nil {
			s.logger.Warn("enqueue booking confirmation",
				slog.Any("error", err), slog.Int64("appointment_id", appt.ID))
		}

		remindAt := appt.ScheduledAt.Add(-24 * time.Hour)
		if remindAt.Before(time.Now()) {
			remindAt = time.Now()
		}
		_, err = s.notifier.EnqueueAppointmentReminder(ctx, jobs.AppointmentReminderPayload{
			AppointmentID: appt.ID,
			PatientEmail:  appt.PatientEmail,
			DoctorName:    appt.DoctorName,
			ScheduledAt:   appt.ScheduledAt,
		}, remindAt)
		if err != nil {
			s.logger.Warn("enqueue appointment reminder",
				slog.Any("error", err), slog.Int64("appointment_id", appt.ID))
		}
	}
	return appt, nil
}

// MineForPatient lists the patient's own appointments.
func (s *Service) MineForPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ScheduleForDoctor lists the doctor's schedule.
func (s *Service) ScheduleForDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// SetStatus transitions an appointment on behalf of its doctor.
func (s *Service) SetStatus(ctx context.Context, id, doctorID int64, update StatusUpdate) error {
	return s.repo.UpdateStatus(ctx, id, doctorID, update)
}
