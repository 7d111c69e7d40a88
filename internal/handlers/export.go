package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
)

// ExportHandler creates and serves JSON exports of a user's records.
type ExportHandler struct {
	exportService *services.ExportService
	logger        logging.Logger
}

// ExportRouter registers export routes on the given router.
func ExportRouter(
	r chi.Router,
	exportService *services.ExportService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	if logger == nil {
		logger = logging.Nop()
	}
	handler := &ExportHandler{exportService: exportService, logger: logger.With("entity", "export")}

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Post("/", handler.CreateExport)
	r.Route("/{exportID}", func(r chi.Router) {
		r.Get("/", handler.GetExport)
		r.Delete("/", handler.DeleteExport)
	})
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	export, err := h.exportService.Create(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, "Export", err)
		return
	}
	writeJSON(w, http.StatusCreated, export)
}

func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	body, err := h.exportService.Open(r.Context(), user.ID, strings.TrimSpace(chi.URLParam(r, "exportID")))
	if err != nil {
		respondError(w, r, h.logger, "Export", err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn(r.Context(), "stream export", "error", err)
	}
}

func (h *ExportHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.exportService.Delete(r.Context(), user.ID, strings.TrimSpace(chi.URLParam(r, "exportID"))); err != nil {
		respondError(w, r, h.logger, "Export", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Export deleted successfully"})
}
