package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailtrack/apiserver/internal/logging"
)

// recordService is the owner-scoped CRUD surface shared by every record
// service.
type recordService[T, F any] interface {
	Get(ctx context.Context, ownerID, id int) (T, error)
	Create(ctx context.Context, ownerID int, fields F) (T, error)
	Update(ctx context.Context, ownerID, id int, fields F) (T, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// recordHandler serves list/create/get/update/delete for one record kind.
// T is the record and F its writable field set.
type recordHandler[T, F any] struct {
	service recordService[T, F]
	list    func(r *http.Request, ownerID int) ([]T, error)
	// entity is the capitalized record name used in response messages.
	entity string
	logger logging.Logger
}

func newRecordHandler[T, F any](
	service recordService[T, F],
	list func(r *http.Request, ownerID int) ([]T, error),
	entity string,
	logger logging.Logger,
) *recordHandler[T, F] {
	if logger == nil {
		logger = logging.Nop()
	}
	return &recordHandler[T, F]{
		service: service,
		list:    list,
		entity:  entity,
		logger:  logger.With("entity", entity),
	}
}

func (h *recordHandler[T, F]) mount(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{recordID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

func (h *recordHandler[T, F]) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	items, err := h.list(r, user.ID)
	if err != nil {
		respondError(w, r, h.logger, h.entity, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *recordHandler[T, F]) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	id, err := parseID(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		respondError(w, r, h.logger, h.entity, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *recordHandler[T, F]) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var fields F
	if err := decodeStrictJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), user.ID, fields)
	if err != nil {
		respondError(w, r, h.logger, h.entity, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *recordHandler[T, F]) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	id, err := parseID(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var fields F
	if err := decodeStrictJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, id, fields)
	if err != nil {
		respondError(w, r, h.logger, h.entity, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *recordHandler[T, F]) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	id, err := parseID(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		respondError(w, r, h.logger, h.entity, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: h.entity + " deleted successfully"})
}
