package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/types"
)

// AccountRouter registers account routes on the given router.
func AccountRouter(
	r chi.Router,
	accountService *services.AccountService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	list := func(r *http.Request, ownerID int) ([]types.Account, error) {
		return accountService.List(r.Context(), ownerID)
	}
	newRecordHandler[types.Account, types.AccountFields](accountService, list, "Account", logger).mount(r, authMiddleware)
}
