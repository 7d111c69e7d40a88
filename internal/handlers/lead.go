package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/types"
)

// LeadRouter registers lead routes on the given router.
func LeadRouter(
	r chi.Router,
	leadService *services.LeadService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	list := func(r *http.Request, ownerID int) ([]types.Lead, error) {
		return leadService.List(r.Context(), ownerID)
	}
	newRecordHandler[types.Lead, types.LeadFields](leadService, list, "Lead", logger).mount(r, authMiddleware)
}
