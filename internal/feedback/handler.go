package feedback

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

// Handler wires HTTP endpoints for patient feedback.
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

// MountRoutes registers feedback routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RolePatient))
		r.Post("/", h.submit)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Get("/", h.list)
	})
}

type entryResponse struct {
	ID          int64  `json:"id"`
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Rating      int    `json:"rating"`
	Comments    string `json:"comments,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handler) toResponse(r *http.Request, e Entry) entryResponse {
	resp := entryResponse{
		ID:          e.ID,
		PatientID:   e.PatientID,
		PatientName: e.PatientName,
		Rating:      e.Rating,
		Comments:    e.Comments,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.VideoKey != "" {
		url, err := h.service.VideoURL(r.Context(), e)
		if err != nil {
			h.logger.Warn("resolve video url", slog.Any("error", err), slog.Int64("feedback_id", e.ID))
		} else {
			resp.VideoURL = url
		}
	}
	return resp
}

type submitForm struct {
	Rating   int `validate:"required,min=1,max=5"`
	Comments string
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
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

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	form := submitForm{Rating: rating, Comments: r.FormValue("comments")}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "rating must be between 1 and 5")
		return
	}

	var (
		video     io.Reader
		videoName string
	)
	if f, header, err := r.FormFile("video"); err == nil {
		defer f.Close()
		video = f
		videoName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unreadable video part")
		return
	}

	principal, _ := shared.PrincipalFromContext(r.Context())
	entry, err := h.service.Submit(r.Context(), Draft{
		PatientID: principal.ID,
		Rating:    form.Rating,
		Comments:  form.Comments,
	}, videoName, video)
	if err != nil {
		h.respondUploadError(w, err, principal.ID)
		return
	}
	if h.metrics != nil && entry.VideoKey != "" {
		h.metrics.ObserveUpload(string(storage.CategoryVideo), r.ContentLength)
	}
	httpx.JSON(w, http.StatusCreated, h.toResponse(r, *entry))
}

func (h *Handler) respondUploadError(w http.ResponseWriter, err error, patientID int64) {
	switch {
	case errors.Is(err, storage.ErrCategoryRejected), errors.Is(err, storage.ErrExtensionRejected):
		httpx.Problem(w, http.StatusBadRequest, "Unsupported File", err.Error())
	case errors.Is(err, storage.ErrPayloadTooLarge):
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "File Too Large", err.Error())
	case errors.Is(err, storage.ErrBackendUnavailable):
		h.logger.Error("storage backend unavailable", slog.Any("error", err), slog.Int64("patient_id", patientID))
		httpx.Problem(w, http.StatusServiceUnavailable, "Storage Unavailable", "file storage is temporarily unavailable")
	default:
		h.logger.Error("submit feedback", slog.Any("error", err), slog.Int64("patient_id", patientID))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	list, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list feedback", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	items := make([]entryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, h.toResponse(r, e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"feedback": items,
		"pagination": map[string]int{
			"page":        pagination.Page,
			"per_page":    pagination.PerPage,
			"total":       pagination.Total,
			"total_pages": pagination.TotalPages,
		},
	})
}
