package patients

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

// Handler wires HTTP endpoints for patient self-service.
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

// MountRoutes registers patient routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
	})
}

type profileResponse struct {
	ID               int64  `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	DateOfBirth      string `json:"date_of_birth"`
	Gender           string `json:"gender,omitempty"`
	BloodType        string `json:"blood_type,omitempty"`
	ContactNumber    string `json:"contact_number"`
	Email            string `json:"email"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	InsuranceDetails string `json:"insurance_details,omitempty"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	patient, err := h.service.Profile(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("get profile", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{
		ID:               patient.ID,
		FirstName:        patient.FirstName,
		LastName:         patient.LastName,
		DateOfBirth:      patient.DateOfBirth.Format("2006-01-02"),
		Gender:           patient.Gender,
		BloodType:        patient.BloodType,
		ContactNumber:    patient.ContactNumber,
		Email:            patient.Email,
		Address:          patient.Address,
		EmergencyContact: patient.EmergencyContact,
		InsuranceDetails: patient.InsuranceDetails,
	})
}

type updateProfileRequest struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	ContactNumber    string `json:"contact_number" validate:"required"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	InsuranceDetails string `json:"insurance_details"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	err := h.service.UpdateProfile(r.Context(), principal.ID, ProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ContactNumber:    req.ContactNumber,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		InsuranceDetails: req.InsuranceDetails,
	})
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":    "profile updated",
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
