package appointments_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/appointments"
	"github.com/medicore/medicore/internal/shared"
	"github.com/medicore/medicore/jobs"
	_ "github.com/medicore/medicore/testing"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*appointments.Appointment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]*appointments.Appointment{}}
}

func (m *memoryRepo) Create(_ context.Context, booking appointments.BookingRequest) (*appointments.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	appt := &appointments.Appointment{
		ID:            m.nextID,
		PatientID:     booking.PatientID,
		DoctorID:      booking.DoctorID,
		ScheduledAt:   booking.ScheduledAt,
		Mode:          booking.Mode,
		Status:        appointments.StatusScheduled,
		PaymentStatus: appointments.PaymentPending,
		Reason:        booking.Reason,
		PatientEmail:  "patient@example.com",
		DoctorName:    "Asha Menon",
	}
	m.items[appt.ID] = appt
	return appt, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*appointments.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return appt, nil
}

func (m *memoryRepo) ListByPatient(_ context.Context, patientID int64) ([]appointments.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []appointments.Appointment
	for _, appt := range m.items {
		if appt.PatientID == patientID {
			result = append(result, *appt)
		}
	}
	return result, nil
}

func (m *memoryRepo) ListByDoctor(_ context.Context, doctorID int64) ([]appointments.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []appointments.Appointment
	for _, appt := range m.items {
		if appt.DoctorID == doctorID {
			result = append(result, *appt)
		}
	}
	return result, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id, doctorID int64, update appointments.StatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.items[id]
	if !ok || appt.DoctorID != doctorID {
		return shared.ErrNotFound
	}
	appt.Status = update.Status
	if update.Notes != "" {
		appt.Notes = update.Notes
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	emails   []jobs.SendEmailPayload
	payloads []jobs.AppointmentReminderPayload
	at       []time.Time
	fail     error
}

func (r *recordingNotifier) EnqueueSendEmail(_ context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	r.emails = append(r.emails, payload)
	return &asynq.TaskInfo{}, nil
}

func (r *recordingNotifier) EnqueueAppointmentReminder(_ context.Context, payload jobs.AppointmentReminderPayload, processAt time.Time) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	r.payloads = append(r.payloads, payload)
	r.at = append(r.at, processAt)
	return &asynq.TaskInfo{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBookSchedulesReminderDayBefore(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	service := appointments.NewService(repo, notifier, discardLogger())

	scheduledAt := time.Now().Add(72 * time.Hour)
	appt, err := service.Book(context.Background(), appointments.BookingRequest{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: scheduledAt,
		Mode:        appointments.ModeVideo,
	})
	require.NoError(t, err)
	require.Equal(t, appointments.StatusScheduled, appt.Status)
	require.Equal(t, appointments.PaymentPending, appt.PaymentStatus)

	require.Len(t, notifier.payloads, 1)
	require.Equal(t, appt.ID, notifier.payloads[0].AppointmentID)
	require.Equal(t, "patient@example.com", notifier.payloads[0].PatientEmail)
	require.WithinDuration(t, scheduledAt.Add(-24*time.Hour), notifier.at[0], time.Minute)
}

func TestBookSendsConfirmationEmail(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	service := appointments.NewService(repo, notifier, discardLogger())

	_, err := service.Book(context.Background(), appointments.BookingRequest{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: time.Now().Add(72 * time.Hour),
		Mode:        appointments.ModeInPerson,
	})
	require.NoError(t, err)

	require.Len(t, notifier.emails, 1)
	require.Equal(t, "patient@example.com", notifier.emails[0].To)
	require.Equal(t, "Appointment confirmed", notifier.emails[0].Subject)
	require.Contains(t, notifier.emails[0].Body, "Dr. Asha Menon")
}

func TestBookImminentAppointmentRemindsImmediately(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{}
	service := appointments.NewService(repo, notifier, discardLogger())

	_, err := service.Book(context.Background(), appointments.BookingRequest{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: time.Now().Add(2 * time.Hour),
		Mode:        appointments.ModeInPerson,
	})
	require.NoError(t, err)
	require.Len(t, notifier.at, 1)
	require.WithinDuration(t, time.Now(), notifier.at[0], time.Minute)
}

func TestBookSurvivesNotifierFailure(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{fail: context.DeadlineExceeded}
	service := appointments.NewService(repo, notifier, discardLogger())

	appt, err := service.Book(context.Background(), appointments.BookingRequest{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Mode:        appointments.ModeVideo,
	})
	require.NoError(t, err)
	require.NotNil(t, appt)
}

func TestSetStatusScopedToOwningDoctor(t *testing.T) {
	repo := newMemoryRepo()
	service := appointments.NewService(repo, nil, discardLogger())

	appt, err := service.Book(context.Background(), appointments.BookingRequest{
		PatientID:   1,
		DoctorID:    2,
		ScheduledAt: time.Now().Add(48 * time.Hour),
		Mode:        appointments.ModeVideo,
	})
	require.NoError(t, err)

	err = service.SetStatus(context.Background(), appt.ID, 99, appointments.StatusUpdate{Status: appointments.StatusCompleted})
	require.ErrorIs(t, err, shared.ErrNotFound)

	err = service.SetStatus(context.Background(), appt.ID, 2, appointments.StatusUpdate{Status: appointments.StatusCompleted, Notes: "all good"})
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	require.Equal(t, appointments.StatusCompleted, got.Status)
	require.Equal(t, "all good", got.Notes)
}
