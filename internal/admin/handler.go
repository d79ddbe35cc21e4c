package admin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/doctors"
	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
)

// Handler wires the admin dashboard endpoints. Everything here requires the
// admin role.
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

// MountRoutes registers admin routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Get("/statistics", h.statistics)
		r.Get("/patients", h.listPatients)
		r.Get("/doctors", h.listDoctors)
		r.Get("/appointments", h.listAppointments)
		r.Put("/doctors/{id}/status", h.setDoctorStatus)
	})
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.logger.Error("collect statistics", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return page, perPage
}

func paginationBody(p shared.Pagination) map[string]int {
	return map[string]int{
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total":       p.Total,
		"total_pages": p.TotalPages,
	}
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	list, pagination, err := h.service.Patients(r.Context(), r.URL.Query().Get("q"), page, perPage)
	if err != nil {
		h.logger.Error("list patients", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(list))
	for _, p := range list {
		items = append(items, map[string]any{
			"id":             p.ID,
			"first_name":     p.FirstName,
			"last_name":      p.LastName,
			"email":          p.Email,
			"contact_number": p.ContactNumber,
			"created_at":     p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"patients": items, "pagination": paginationBody(pagination)})
}

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	list, pagination, err := h.service.Doctors(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list doctors", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(list))
	for _, d := range list {
		items = append(items, map[string]any{
			"id":                  d.ID,
			"first_name":          d.FirstName,
			"last_name":           d.LastName,
			"email":               d.Email,
			"specialization":      d.Specialization,
			"availability_status": d.AvailabilityStatus,
			"created_at":          d.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"doctors": items, "pagination": paginationBody(pagination)})
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	list, pagination, err := h.service.Appointments(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list appointments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(list))
	for _, a := range list {
		items = append(items, map[string]any{
			"id":           a.ID,
			"patient_name": a.PatientName,
			"doctor_name":  a.DoctorName,
			"scheduled_at": a.ScheduledAt.UTC().Format(time.RFC3339),
			"mode":         a.Mode,
			"status":       a.Status,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"appointments": items, "pagination": paginationBody(pagination)})
}

type doctorStatusRequest struct {
	AvailabilityStatus string `json:"availability_status" validate:"required"`
}

func (h *Handler) setDoctorStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid doctor id")
		return
	}

	var req doctorStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil || !doctors.ValidStatus(req.AvailabilityStatus) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "availability_status must be one of Available, Unavailable, On Leave")
		return
	}

	if err := h.service.SetDoctorStatus(r.Context(), id, req.AvailabilityStatus); err != nil {
		h.logger.Error("set doctor status", slog.Any("error", err), slog.Int64("doctor_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":             "doctor status updated",
		"availability_status": req.AvailabilityStatus,
	})
}
