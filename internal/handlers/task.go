package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/types"
)

// TaskRouter registers task routes on the given router.
func TaskRouter(
	r chi.Router,
	taskService *services.TaskService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	list := func(r *http.Request, ownerID int) ([]types.Task, error) {
		return taskService.List(r.Context(), ownerID)
	}
	newRecordHandler[types.Task, types.TaskFields](taskService, list, "Task", logger).mount(r, authMiddleware)
}
