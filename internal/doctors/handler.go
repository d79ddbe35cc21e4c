package doctors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
)

// Handler wires HTTP endpoints for the doctor directory and doctor
// self-service.
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

// MountRoutes registers doctor routes on the provided router. The directory
// is patient-facing; profile and availability belong to the doctor role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Get("/", h.listDirectory)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleDoctor))
		r.Get("/profile", h.getProfile)
		r.Put("/availability", h.updateAvailability)
	})
}

type doctorResponse struct {
	ID                 int64   `json:"id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Specialization     string  `json:"specialization"`
	ExperienceYears    int     `json:"experience_years"`
	ConsultationFees   float64 `json:"consultation_fees"`
	AvailabilityStatus string  `json:"availability_status"`
	ClinicHospitalName string  `json:"clinic_hospital_name,omitempty"`
	ContactNumber      string  `json:"contact_number,omitempty"`
	Email              string  `json:"email,omitempty"`
}

func toDoctorResponse(d Doctor, includeContact bool) doctorResponse {
	resp := doctorResponse{
		ID:                 d.ID,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Specialization:     d.Specialization,
		ExperienceYears:    d.ExperienceYears,
		ConsultationFees:   d.ConsultationFees,
		AvailabilityStatus: d.AvailabilityStatus,
		ClinicHospitalName: d.ClinicHospitalName,
	}
	if includeContact {
		resp.ContactNumber = d.ContactNumber
		resp.Email = d.Email
	}
	return resp
}

func (h *Handler) listDirectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	list, pagination, err := h.service.Directory(r.Context(), DirectoryFilter{
		Specialization: q.Get("specialization"),
		Page:           page,
		PerPage:        perPage,
	})
	if err != nil {
		h.logger.Error("list doctor directory", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	items := make([]doctorResponse, 0, len(list))
	for _, d := range list {
		items = append(items, toDoctorResponse(d, false))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"doctors": items,
		"pagination": map[string]int{
			"page":        pagination.Page,
			"per_page":    pagination.PerPage,
			"total":       pagination.Total,
			"total_pages": pagination.TotalPages,
		},
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	doctor, err := h.service.Profile(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("get doctor profile", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDoctorResponse(*doctor, true))
}

type updateAvailabilityRequest struct {
	AvailabilityStatus string `json:"availability_status" validate:"required"`
}

func (h *Handler) updateAvailability(w http.ResponseWriter, r *http.Request) {
	var req updateAvailabilityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil || !ValidStatus(req.AvailabilityStatus) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "availability_status must be one of Available, Unavailable, On Leave")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	if err := h.service.SetAvailability(r.Context(), principal.ID, req.AvailabilityStatus); err != nil {
		h.logger.Error("update availability", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":             "availability updated",
		"availability_status": req.AvailabilityStatus,
	})
}
