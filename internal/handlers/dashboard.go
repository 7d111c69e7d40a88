package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
)

// DashboardHandler serves the per-user dashboard counters.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           logging.Logger
}

// DashboardRouter registers dashboard routes on the given router.
func DashboardRouter(
	r chi.Router,
	dashboardService *services.DashboardService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	if logger == nil {
		logger = logging.Nop()
	}
	handler := &DashboardHandler{dashboardService: dashboardService, logger: logger}

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/stats", handler.Stats)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, "Dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
