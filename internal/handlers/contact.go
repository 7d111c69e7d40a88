package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/types"
)

// ContactRouter registers contact routes on the given router.
func ContactRouter(
	r chi.Router,
	contactService *services.ContactService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	list := func(r *http.Request, ownerID int) ([]types.Contact, error) {
		return contactService.List(r.Context(), ownerID)
	}
	newRecordHandler[types.Contact, types.ContactFields](contactService, list, "Contact", logger).mount(r, authMiddleware)
}
