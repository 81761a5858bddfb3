package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

const maxBackupBytes = 32 << 20

// BackupStore exports, restores and wipes all collections. Satisfied by
// *store.Backups.
type BackupStore interface {
	Export() store.Backup
	Import(ctx context.Context, data []byte) ([]string, error)
	Reset(ctx context.Context) error
}

type BackupHandler struct {
	backups BackupStore
	clock   clock.Clock
	events  Broadcaster
}

func NewBackupHandler(backups BackupStore, clk clock.Clock, events Broadcaster) *BackupHandler {
	return &BackupHandler{backups: backups, clock: clk, events: orNop(events)}
}

// RegisterRoutes registers backup endpoints. Expected mount point: /backup
func (h *BackupHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Export)
	r.Post("/", h.Import)
	r.Delete("/", h.Reset)
}

// Export downloads every collection as one JSON document.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("nasigor_backup_%s.json", h.clock.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	writeJSON(w, http.StatusOK, h.backups.Export())
}

// Import restores the collections present in the body.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "backup too large")
		return
	}

	keys, err := h.backups.Import(r.Context(), data)
	if err != nil {
		if errors.Is(err, store.ErrInvalidBackup) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, "import backup", err)
		return
	}

	h.publishReset(r, keys)
	writeJSON(w, http.StatusOK, map[string]interface{}{"restored": keys})
}

// Reset wipes every collection back to the seed data.
func (h *BackupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.backups.Reset(r.Context()); err != nil {
		internalError(w, r, "reset data", err)
		return
	}

	h.publishReset(r, store.Keys)
	writeJSON(w, http.StatusOK, map[string]interface{}{"reset": store.Keys})
}

func (h *BackupHandler) publishReset(r *http.Request, keys []string) {
	payload := map[string]interface{}{"keys": keys}
	for _, stream := range []string{ws.StreamLedger, ws.StreamMenu, ws.StreamProfile} {
		publish(r, h.events, stream, ws.EventDataReset, payload)
	}
}
