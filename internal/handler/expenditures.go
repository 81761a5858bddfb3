package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/parser"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/report"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/service"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

// ExpenditureLedger records operating expenses. Satisfied by *store.Ledger.
type ExpenditureLedger interface {
	Expenditures() []domain.Expenditure
	AddExpenditure(ctx context.Context, in store.NewExpenditure) (domain.Expenditure, error)
	DeleteExpenditure(ctx context.Context, id string) error
}

// ExpenseNoteRecorder turns a chat expense note into expenditures.
// Satisfied by *service.ExpenseNoteService.
type ExpenseNoteRecorder interface {
	Record(ctx context.Context, text string) (service.ExpenseNoteResult, error)
}

type ExpenditureHandler struct {
	ledger ExpenditureLedger
	notes  ExpenseNoteRecorder
	clock  clock.Clock
	events Broadcaster
}

func NewExpenditureHandler(ledger ExpenditureLedger, notes ExpenseNoteRecorder, clk clock.Clock, events Broadcaster) *ExpenditureHandler {
	return &ExpenditureHandler{ledger: ledger, notes: notes, clock: clk, events: orNop(events)}
}

// RegisterRoutes registers expenditure endpoints. Expected mount point: /expenditures
func (h *ExpenditureHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/whatsapp", h.FromNote)
	r.Delete("/{id}", h.Delete)
}

type createExpenditureRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
}

// List returns expenditures newest first, narrowed by the optional window.
func (h *ExpenditureHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterLifetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.FilterByTime(h.ledger.Expenditures(), filter, rng, now))
}

func (h *ExpenditureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenditureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.ledger.AddExpenditure(r.Context(), store.NewExpenditure{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
	})
	if err != nil {
		writeExpenditureError(w, r, err)
		return
	}

	publish(r, h.events, ws.StreamLedger, ws.EventExpenditureCreated, exp)
	writeJSON(w, http.StatusCreated, exp)
}

// FromNote records every priced line of a pasted expense note.
func (h *ExpenditureHandler) FromNote(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.notes.Record(r.Context(), req.Text)
	for _, exp := range res.Expenditures {
		publish(r, h.events, ws.StreamLedger, ws.EventExpenditureCreated, exp)
	}
	if err != nil {
		if errors.Is(err, parser.ErrNoItems) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":    err.Error(),
				"warnings": res.Warnings,
			})
			return
		}
		writeExpenditureError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *ExpenditureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.ledger.DeleteExpenditure(r.Context(), id); err != nil {
		writeExpenditureError(w, r, err)
		return
	}

	publish(r, h.events, ws.StreamLedger, ws.EventExpenditureDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

func writeExpenditureError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidExpenditure), errors.Is(err, store.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrExpenditureNotFound):
		writeError(w, http.StatusNotFound, "expenditure not found")
	default:
		internalError(w, r, "expenditure", err)
	}
}
