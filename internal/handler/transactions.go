package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/report"
)

// TransactionReader lists committed sales. Satisfied by *store.Ledger.
type TransactionReader interface {
	Transactions() []domain.Transaction
}

type TransactionHandler struct {
	ledger TransactionReader
	clock  clock.Clock
}

func NewTransactionHandler(ledger TransactionReader, clk clock.Clock) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, clock: clk}
}

// RegisterRoutes registers transaction endpoints. Expected mount point: /transactions
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List returns the sales inside the requested window in commit order.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterLifetime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.FilterByTime(h.ledger.Transactions(), filter, rng, now))
}
