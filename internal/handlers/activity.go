package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
	"github.com/trailtrack/apiserver/internal/services"
	"github.com/trailtrack/apiserver/types"
)

// ActivityRouter registers activity routes on the given router. The list
// endpoint accepts an optional lead_id query filter.
func ActivityRouter(
	r chi.Router,
	activityService *services.ActivityService,
	authMiddleware func(http.Handler) http.Handler,
	logger logging.Logger,
) {
	list := func(r *http.Request, ownerID int) ([]types.Activity, error) {
		leadID, err := parseLeadFilter(r)
		if err != nil {
			return nil, err
		}
		return activityService.List(r.Context(), ownerID, leadID)
	}
	newRecordHandler[types.Activity, types.ActivityFields](activityService, list, "Activity", logger).mount(r, authMiddleware)
}

// parseLeadFilter reads lead_id from the query. Absent or zero means no
// filter.
func parseLeadFilter(r *http.Request) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("lead_id"))
	if raw == "" {
		return nil, nil
	}
	leadID, err := strconv.Atoi(raw)
	if err != nil || leadID < 0 {
		return nil, badRequest("invalid lead_id")
	}
	if leadID == 0 {
		return nil, nil
	}
	return &leadID, nil
}
