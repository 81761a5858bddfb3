package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/report"
)

// LedgerReader reads both ledgers. Satisfied by *store.Ledger.
type LedgerReader interface {
	Transactions() []domain.Transaction
	Expenditures() []domain.Expenditure
}

// ReportsHandler handles dashboard and export endpoints.
type ReportsHandler struct {
	ledger LedgerReader
	clock  clock.Clock
}

func NewReportsHandler(ledger LedgerReader, clk clock.Clock) *ReportsHandler {
	return &ReportsHandler{ledger: ledger, clock: clk}
}

// RegisterRoutes registers report endpoints. Expected mount point: /reports
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/transactions.csv", h.TransactionsCSV)
	r.Get("/expenditures.csv", h.ExpendituresCSV)
	r.Get("/transactions.xlsx", h.TransactionsXLSX)
}

type summaryResponse struct {
	Filter    string `json:"filter"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	report.Summary
}

// Summary returns the dashboard figures. The default window is TODAY.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterToday)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := summaryResponse{
		Filter:  filter,
		Summary: report.Build(h.ledger.Transactions(), h.ledger.Expenditures(), filter, rng, now),
	}
	if !rng.Start.IsZero() {
		resp.StartDate = rng.Start.Format("2006-01-02")
	}
	if !rng.End.IsZero() {
		resp.EndDate = rng.End.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportsHandler) TransactionsCSV(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterToday)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs := report.FilterByTime(h.ledger.Transactions(), filter, rng, now)
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, report.TransactionHeader, report.TransactionRows(txs, now.Location())); err != nil {
		internalError(w, r, "write transactions csv", err)
		return
	}
	writeFile(w, "text/csv; charset=utf-8", fmt.Sprintf("Laporan_Penjualan_%s_%s.csv", filter, now.Format("2006-01-02")), buf.Bytes())
}

func (h *ReportsHandler) ExpendituresCSV(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterToday)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exps := report.FilterByTime(h.ledger.Expenditures(), filter, rng, now)
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, report.ExpenditureHeader, report.ExpenditureRows(exps, now.Location())); err != nil {
		internalError(w, r, "write expenditures csv", err)
		return
	}
	writeFile(w, "text/csv; charset=utf-8", fmt.Sprintf("Laporan_Pengeluaran_%s_%s.csv", filter, now.Format("2006-01-02")), buf.Bytes())
}

// TransactionsXLSX exports sales and expenditures of the window as a
// two-sheet workbook.
func (h *ReportsHandler) TransactionsXLSX(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	filter, rng, err := parseWindow(r, now.Location(), enum.TimeFilterToday)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loc := now.Location()
	txs := report.FilterByTime(h.ledger.Transactions(), filter, rng, now)
	exps := report.FilterByTime(h.ledger.Expenditures(), filter, rng, now)

	var buf bytes.Buffer
	err = report.WriteXLSX(&buf,
		report.Sheet{Name: "Penjualan", Header: report.TransactionHeader, Rows: report.TransactionRows(txs, loc)},
		report.Sheet{Name: "Pengeluaran", Header: report.ExpenditureHeader, Rows: report.ExpenditureRows(exps, loc)},
	)
	if err != nil {
		internalError(w, r, "write transactions xlsx", err)
		return
	}
	writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("Laporan_Penjualan_%s_%s.xlsx", filter, now.Format("2006-01-02")), buf.Bytes())
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
