// Package handler exposes the register, catalog, ledger and reports over
// HTTP. Each handler owns a narrow store interface and registers its routes
// on a chi subrouter.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/middleware"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// Broadcaster pushes change events to live dashboards. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(stream string, event ws.Event)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, ws.Event) {}

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

// publish broadcasts payload as eventType on stream. Marshal failures are
// logged and swallowed; the mutation has already succeeded.
func publish(r *http.Request, b Broadcaster, stream, eventType string, payload interface{}) {
	ev, err := ws.NewEvent(eventType, payload)
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Error("build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	b.Broadcast(stream, ev)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs err with the request logger and answers 500 without
// leaking details.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	middleware.LoggerFromContext(r.Context()).Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(r *http.Request, name string) (int64, bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, true, err
	}
	return n, true, nil
}
