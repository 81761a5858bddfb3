package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/advisor"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/clock"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/handler"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/service"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/store"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/ws"
)

var wib = time.FixedZone("WIB", 7*3600)

// Friday 16 October 2026, 14:30 WIB.
var fixedNow = time.Date(2026, 10, 16, 14, 30, 0, 0, wib)

type recordedEvent struct {
	Stream string
	Event  ws.Event
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(stream string, event ws.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{stream, event})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Stream + ":" + e.Event.Type
	}
	return out
}

type mockAdvisor struct {
	recommendFn func(ctx context.Context, req advisor.AdviceRequest) (advisor.Advice, error)
}

func (m *mockAdvisor) Recommend(ctx context.Context, req advisor.AdviceRequest) (advisor.Advice, error) {
	return m.recommendFn(ctx, req)
}

// env wires the real stores over an in-memory persistence.
type env struct {
	p        *store.MemoryStore
	clock    clock.Clock
	catalog  *store.Catalog
	ledger   *store.Ledger
	profile  *store.ProfileStore
	backups  *store.Backups
	checkout *service.CheckoutService
	notes    *service.ExpenseNoteService
	events   *recordingBroadcaster
	router   *chi.Mux
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	e := &env{p: store.NewMemoryStore(), clock: clock.Fixed(fixedNow), events: &recordingBroadcaster{}}
	e.catalog = store.NewCatalog(ctx, e.p, logger)
	e.ledger = store.NewLedger(ctx, e.p, e.clock, logger)
	e.profile = store.NewProfileStore(ctx, e.p, logger)
	e.backups = store.NewBackups(e.p, e.catalog, e.ledger, e.profile, e.clock, logger)
	e.checkout = service.NewCheckoutService(e.catalog, e.ledger, e.clock, logger)
	e.notes = service.NewExpenseNoteService(e.ledger, e.clock, logger)

	adv := advisor.NewService(nil, advisor.Options{}, logger)

	r := chi.NewRouter()
	r.Route("/menu", handler.NewMenuHandler(e.catalog, adv, e.events).RegisterRoutes)
	r.Route("/cart", handler.NewCartHandler(e.checkout, e.events).RegisterRoutes)
	r.Route("/transactions", handler.NewTransactionHandler(e.ledger, e.clock).RegisterRoutes)
	r.Route("/expenditures", handler.NewExpenditureHandler(e.ledger, e.notes, e.clock, e.events).RegisterRoutes)
	r.Route("/reports", handler.NewReportsHandler(e.ledger, e.clock).RegisterRoutes)
	r.Route("/profile", handler.NewProfileHandler(e.profile, e.events).RegisterRoutes)
	r.Route("/backup", handler.NewBackupHandler(e.backups, e.clock, e.events).RegisterRoutes)
	e.router = r
	return e
}

// seedItemID returns the id of the seed menu item with the given name.
func (e *env) seedItemID(t *testing.T, name string) string {
	t.Helper()
	for _, it := range e.catalog.List() {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("no seed item %q", name)
	return ""
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}
