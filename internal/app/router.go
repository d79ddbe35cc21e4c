package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medicore/medicore/internal/admin"
	"github.com/medicore/medicore/internal/appointments"
	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/doctors"
	"github.com/medicore/medicore/internal/feedback"
	"github.com/medicore/medicore/internal/observability"
	"github.com/medicore/medicore/internal/patients"
	"github.com/medicore/medicore/internal/prescriptions"
	"github.com/medicore/medicore/internal/reports"
	"github.com/medicore/medicore/internal/storage"
	"github.com/medicore/medicore/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthHandler          *auth.Handler
	PatientsHandler      *patients.Handler
	DoctorsHandler       *doctors.Handler
	AppointmentsHandler  *appointments.Handler
	PrescriptionsHandler *prescriptions.Handler
	ReportsHandler       *reports.Handler
	FeedbackHandler      *feedback.Handler
	AdminHandler         *admin.Handler
	JobHandler           *jobs.Handler
	Metrics              *observability.Metrics

	// LocalUploadDir, when non-empty, serves stored files from disk under
	// storage.PublicPrefix. Left empty when the object store backend is
	// active and URLs are presigned instead.
	LocalUploadDir string
}

// NewRouter constructs the chi.Router with Medicore defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	if params.LocalUploadDir != "" {
		fileServer := http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(params.LocalUploadDir)))
		r.Get(storage.PublicPrefix+"/*", fileServer.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/patients", params.PatientsHandler.MountRoutes)
		api.Route("/doctors", params.DoctorsHandler.MountRoutes)
		api.Route("/appointments", params.AppointmentsHandler.MountRoutes)
		api.Route("/prescriptions", params.PrescriptionsHandler.MountRoutes)
		api.Route("/reports", params.ReportsHandler.MountRoutes)
		api.Route("/feedback", params.FeedbackHandler.MountRoutes)
		api.Route("/admin", params.AdminHandler.MountRoutes)
		if params.JobHandler != nil {
			api.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
