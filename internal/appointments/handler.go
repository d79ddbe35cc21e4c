package appointments

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
)

// Handler wires HTTP endpoints for appointment booking and scheduling.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers appointment routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Post("/", h.book)
		r.Get("/mine", h.listMine)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleDoctor))
		r.Get("/schedule", h.listSchedule)
		r.Patch("/{id}/status", h.updateStatus)
	})
}

type appointmentResponse struct {
	ID            int64  `json:"id"`
	PatientID     int64  `json:"patient_id"`
	DoctorID      int64  `json:"doctor_id"`
	PatientName   string `json:"patient_name"`
	DoctorName    string `json:"doctor_name"`
	ScheduledAt   string `json:"scheduled_at"`
	Mode          string `json:"mode"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Reason        string `json:"reason,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		PatientName:   a.PatientName,
		DoctorName:    a.DoctorName,
		ScheduledAt:   a.ScheduledAt.UTC().Format(time.RFC3339),
		Mode:          a.Mode,
		Status:        a.Status,
		PaymentStatus: a.PaymentStatus,
		Reason:        a.Reason,
		Notes:         a.Notes,
	}
}

type bookRequest struct {
	DoctorID    int64  `json:"doctor_id" validate:"required,gt=0"`
	ScheduledAt string `json:"scheduled_at" validate:"required"`
	Mode        string `json:"mode" validate:"required"`
	Reason      string `json:"reason"`
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if !ValidMode(req.Mode) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "mode must be In-Person or Video")
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "scheduled_at must be RFC3339")
		return
	}
	if !scheduledAt.After(time.Now()) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "scheduled_at must be in the future")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	appt, err := h.service.Book(r.Context(), BookingRequest{
		PatientID:   principal.ID,
		DoctorID:    req.DoctorID,
		ScheduledAt: scheduledAt,
		Mode:        req.Mode,
		Reason:      req.Reason,
	})
	if err != nil {
		h.logger.Error("book appointment", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toAppointmentResponse(*appt))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.MineForPatient(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list appointments", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, list)
}

func (h *Handler) listSchedule(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.ScheduleForDoctor(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list schedule", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, list)
}

func (h *Handler) respondList(w http.ResponseWriter, list []Appointment) {
	items := make([]appointmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAppointmentResponse(a))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"appointments": items})
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid appointment id")
		return
	}

	var req statusUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil || !ValidStatus(req.Status) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status must be one of Scheduled, Completed, Cancelled")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	if err := h.service.SetStatus(r.Context(), id, principal.ID, StatusUpdate{Status: req.Status, Notes: req.Notes}); err != nil {
		h.logger.Error("update appointment status", slog.Any("error", err),
			slog.Int64("appointment_id", id), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "appointment updated", "status": req.Status})
}
