package reports

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/observability"
	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
	"github.com/medicore/medicore/internal/storage"
)

// Handler wires HTTP endpoints for clinical reports. Filing accepts
// multipart form data so an attachment can ride along with the metadata.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Guard
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, metrics: metrics, validator: validator.New()}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Get("/mine", h.listMine)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleDoctor))
		r.Post("/", h.file)
		r.Get("/filed", h.listFiled)
		r.Delete("/{id}", h.delete)
	})
}

type reportResponse struct {
	ID          int64  `json:"id"`
	PatientID   int64  `json:"patient_id"`
	DoctorID    int64  `json:"doctor_id"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	Title       string `json:"title"`
	ReportType  string `json:"report_type"`
	Description string `json:"description,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handler) toResponse(r *http.Request, rep Report) reportResponse {
	resp := reportResponse{
		ID:          rep.ID,
		PatientID:   rep.PatientID,
		DoctorID:    rep.DoctorID,
		PatientName: rep.PatientName,
		DoctorName:  rep.DoctorName,
		Title:       rep.Title,
		ReportType:  rep.ReportType,
		Description: rep.Description,
		CreatedAt:   rep.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rep.FileKey != "" {
		url, err := h.service.AttachmentURL(r.Context(), rep)
		if err != nil {
			h.logger.Warn("resolve attachment url", slog.Any("error", err), slog.Int64("report_id", rep.ID))
		} else {
			resp.FileURL = url
		}
	}
	return resp
}

type fileReportForm struct {
	PatientID   int64  `validate:"required,gt=0"`
	Title       string `validate:"required"`
	ReportType  string `validate:"required"`
	Description string
}

func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	// Cap the whole request at the file limit plus headroom for form fields
	// so oversize uploads are cut off at the socket.
	r.Body = http.MaxBytesReader(w, r.Body, h.service.uploads.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(h.service.uploads.MaxBytes() + 1<<20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "upload exceeds the allowed size")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed multipart body")
		return
	}

	patientID, _ := strconv.ParseInt(r.FormValue("patient_id"), 10, 64)
	form := fileReportForm{
		PatientID:   patientID,
		Title:       r.FormValue("title"),
		ReportType:  r.FormValue("report_type"),
		Description: r.FormValue("description"),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var (
		attachment     io.Reader
		attachmentName string
	)
	if f, header, err := r.FormFile("file"); err == nil {
		defer f.Close()
		attachment = f
		attachmentName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unreadable file part")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	rep, err := h.service.File(r.Context(), Draft{
		PatientID:   form.PatientID,
		DoctorID:    principal.ID,
		Title:       form.Title,
		ReportType:  form.ReportType,
		Description: form.Description,
	}, attachmentName, attachment)
	if err != nil {
		h.respondUploadError(w, err, principal.ID)
		return
	}
	if h.metrics != nil && rep.FileKey != "" {
		h.metrics.ObserveUpload(string(storage.CategoryDocument), r.ContentLength)
	}
	httpx.JSON(w, http.StatusCreated, h.toResponse(r, *rep))
}

func (h *Handler) respondUploadError(w http.ResponseWriter, err error, doctorID int64) {
	switch {
	case errors.Is(err, storage.ErrCategoryRejected), errors.Is(err, storage.ErrExtensionRejected):
		httpx.Problem(w, http.StatusBadRequest, "Unsupported File", err.Error())
	case errors.Is(err, storage.ErrPayloadTooLarge):
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "File Too Large", err.Error())
	case errors.Is(err, storage.ErrBackendUnavailable):
		h.logger.Error("storage backend unavailable", slog.Any("error", err), slog.Int64("doctor_id", doctorID))
		httpx.Problem(w, http.StatusServiceUnavailable, "Storage Unavailable", "file storage is temporarily unavailable")
	default:
		h.logger.Error("file report", slog.Any("error", err), slog.Int64("doctor_id", doctorID))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.MineForPatient(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list reports", slog.Any("error", err), slog.Int64("patient_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, r, list)
}

func (h *Handler) listFiled(w http.ResponseWriter, r *http.Request) {
	principal, _ := shared.PrincipalFromContext(r.Context())
	list, err := h.service.FiledByDoctor(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list filed reports", slog.Any("error", err), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	h.respondList(w, r, list)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, list []Report) {
	items := make([]reportResponse, 0, len(list))
	for _, rep := range list {
		items = append(items, h.toResponse(r, rep))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reports": items})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid report id")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id, principal.ID); err != nil {
		h.logger.Error("delete report", slog.Any("error", err),
			slog.Int64("report_id", id), slog.Int64("doctor_id", principal.ID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "report deleted"})
}
