package prescriptions

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
)

// Handler wires HTTP endpoints for prescriptions.
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

// MountRoutes registers prescription routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Get("/mine", h.listMine)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleDoctor))
		r.Post("/", h.prescribe)
		r.Get("/issued", h.listIssued)
	})
}

type prescriptionResponse struct {
	ID             int64  `json:"id"`
	PatientID      int64  `json:"patient_id"`
	DoctorID       int64  `json:"doctor_id"`
	AppointmentID  int64  `json:"appointment_id,omitempty"`
	PatientName    string `json:"patient_name"`
	DoctorName     string `json:"doctor_name"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func toPrescriptionResponse(pr Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:             pr.ID,
		PatientID:      pr.PatientID,
		DoctorID:       pr.DoctorID,
		AppointmentID:  pr.AppointmentID,
		PatientName:    pr.PatientName,
		DoctorName:     pr.DoctorName,
		MedicationName: pr.MedicationName,
		Dosage:         pr.Dosage,
		Frequency:      pr.Frequency,
		Duration:       pr.Duration,
		Instructions:   pr.Instructions,
		CreatedAt:      pr.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type prescribeRequest struct {
	PatientID      int64  `json:"patient_id" validate:"required,gt=0"`
	AppointmentID  int64  `json:"appointment_id"`
	MedicationName string `json:"medication_name" validate:"required"`
	Dosage         string `json:"dosage" validate:"required"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
}

func (h *Handler) prescribe(w http.ResponseWriter, r *http.Request) {
	var req prescribeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	pr, err := h.service.Prescribe(r.Context(), Draft{
		PatientID:      req.PatientID,
		DoctorID:       principal.ID,
		AppointmentID:  req.AppointmentID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
	})
	if err != nil {
		h.logger.Error("create prescription", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPrescriptionResponse(*pr))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.MineForPatient(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list prescriptions", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, list)
}

func (h *Handler) listIssued(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.IssuedByDoctor(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list issued prescriptions", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, list)
}

func (h *Handler) respondList(w http.ResponseWriter, list []Prescription) {
	items := make([]prescriptionResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, toPrescriptionResponse(pr))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"prescriptions": items})
}
