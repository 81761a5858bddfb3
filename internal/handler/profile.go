package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// ProfileStore reads and replaces the receipt header. Satisfied by
// *store.ProfileStore.
type ProfileStore interface {
	Get() domain.StoreProfile
	Save(ctx context.Context, prof domain.StoreProfile) error
}

type ProfileHandler struct {
	store  ProfileStore
	events Broadcaster
}

func NewProfileHandler(store ProfileStore, events Broadcaster) *ProfileHandler {
	return &ProfileHandler{store: store, events: orNop(events)}
}

// RegisterRoutes registers profile endpoints. Expected mount point: /profile
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Get())
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var prof domain.StoreProfile
	if err := decodeJSON(r, &prof); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(prof.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.store.Save(r.Context(), prof); err != nil {
		internalError(w, r, "save profile", err)
		return
	}

	publish(r, h.events, ws.StreamProfile, ws.EventProfileUpdated, prof)
	writeJSON(w, http.StatusOK, prof)
}
